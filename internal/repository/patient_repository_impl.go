package repository

import (
	"errors"

	"clinic-frontdesk/internal/domain/entity"
	domainRepo "clinic-frontdesk/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) FindByPhone(db *gorm.DB, phone string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("phone_number = ?", phone).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// Create inserts the patient, or loads the existing row when another booking
// registered the same phone number first.
func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}).Create(patient)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return db.Where("phone_number = ?", patient.PhoneNumber).First(patient).Error
	}
	return nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Save(patient).Error
}
