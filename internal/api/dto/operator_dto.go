package dto

import (
	"github.com/inmohub/identity-service/internal/domain"
	"github.com/inmohub/identity-service/internal/service"
)

// OperatorRegisterRequest carries a new operator registration.
type OperatorRegisterRequest struct {
	FirstName  string            `json:"firstName"`
	FamilyName string            `json:"familyName"`
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	SystemRole domain.SystemRole `json:"systemRole"`
}

// ToOperator converts the request into a domain record.
func (r OperatorRegisterRequest) ToOperator() *domain.Operator {
	return &domain.Operator{
		Identity: domain.Identity{
			FirstName:  r.FirstName,
			FamilyName: r.FamilyName,
			Email:      r.Email,
		},
		SystemRole: r.SystemRole,
	}
}

// OperatorInfoDto mirrors the mutable operator profile fields.
type OperatorInfoDto struct {
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
}

// ToInfo converts the DTO to the service type.
func (d OperatorInfoDto) ToInfo() service.OperatorInfo {
	return service.OperatorInfo{FirstName: d.FirstName, FamilyName: d.FamilyName}
}

// OperatorInfoFromService converts the service type to the DTO.
func OperatorInfoFromService(info *service.OperatorInfo) OperatorInfoDto {
	return OperatorInfoDto{FirstName: info.FirstName, FamilyName: info.FamilyName}
}
