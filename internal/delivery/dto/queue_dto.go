package dto

type UpdateQueueNumberRequest struct {
	QueueNumber int `json:"queue_number" validate:"required,min=1"`
}

type DoctorQueueResponse struct {
	Doctor       DoctorSummary         `json:"doctor"`
	Appointments []AppointmentResponse `json:"appointments"`
	// NowServing is the lowest pending queue number, 0 when the queue is empty.
	NowServing int `json:"now_serving"`
	Pending    int `json:"pending"`
}

type QueueBoardResponse struct {
	Date    string                `json:"date"`
	Queues  []DoctorQueueResponse `json:"queues"`
	Total   int                   `json:"total"`
	Pending int                   `json:"pending"`
}
