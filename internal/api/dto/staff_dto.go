package dto

import (
	"time"

	"github.com/inmohub/identity-service/internal/domain"
	"github.com/inmohub/identity-service/internal/service"
)

// StaffRegisterRequest carries a new staff registration.
type StaffRegisterRequest struct {
	FirstName               string             `json:"firstName"`
	FamilyName              string             `json:"familyName"`
	Email                   string             `json:"email"`
	Password                string             `json:"password,omitempty"`
	CompanyRole             domain.CompanyRole `json:"companyRole,omitempty"`
	BirthDate               *time.Time         `json:"birthDate,omitempty"`
	IdentityDocument        string             `json:"identityDocument,omitempty"`
	JobTitle                string             `json:"jobTitle,omitempty"`
	Address                 string             `json:"address,omitempty"`
	Phone                   string             `json:"phone,omitempty"`
	Gender                  domain.Gender      `json:"gender,omitempty"`
	TaxIdentificationNumber *string            `json:"taxIdentificationNumber,omitempty"`
}

// ToStaff converts the request into a domain record. Status and credential
// defaults are applied by the lifecycle service.
func (r StaffRegisterRequest) ToStaff() *domain.Staff {
	return &domain.Staff{
		Identity: domain.Identity{
			FirstName:  r.FirstName,
			FamilyName: r.FamilyName,
			Email:      r.Email,
		},
		CompanyRole:             r.CompanyRole,
		TaxIdentificationNumber: r.TaxIdentificationNumber,
		BirthDate:               r.BirthDate,
		IdentityDocument:        r.IdentityDocument,
		JobTitle:                r.JobTitle,
		Address:                 r.Address,
		Phone:                   r.Phone,
		Gender:                  r.Gender,
	}
}

// StaffCompanyRequest assigns a company to a staff account.
type StaffCompanyRequest struct {
	TaxIdentificationNumber string `json:"taxIdentificationNumber"`
}

// AccountConfirmationResponse reports the activation outcome.
type AccountConfirmationResponse struct {
	IsPasswordSet bool `json:"isPasswordSet"`
}

// StaffInfoDto mirrors the mutable staff profile fields.
type StaffInfoDto struct {
	FirstName        string        `json:"firstName"`
	FamilyName       string        `json:"familyName"`
	BirthDate        *time.Time    `json:"birthDate,omitempty"`
	IdentityDocument string        `json:"identityDocument,omitempty"`
	JobTitle         string        `json:"jobTitle,omitempty"`
	Address          string        `json:"address,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	Gender           domain.Gender `json:"gender,omitempty"`
}

// ToInfo converts the DTO to the service type.
func (d StaffInfoDto) ToInfo() service.StaffInfo {
	return service.StaffInfo{
		FirstName:        d.FirstName,
		FamilyName:       d.FamilyName,
		BirthDate:        d.BirthDate,
		IdentityDocument: d.IdentityDocument,
		JobTitle:         d.JobTitle,
		Address:          d.Address,
		Phone:            d.Phone,
		Gender:           d.Gender,
	}
}

// StaffInfoFromService converts the service type to the DTO.
func StaffInfoFromService(info *service.StaffInfo) StaffInfoDto {
	return StaffInfoDto{
		FirstName:        info.FirstName,
		FamilyName:       info.FamilyName,
		BirthDate:        info.BirthDate,
		IdentityDocument: info.IdentityDocument,
		JobTitle:         info.JobTitle,
		Address:          info.Address,
		Phone:            info.Phone,
		Gender:           info.Gender,
	}
}
