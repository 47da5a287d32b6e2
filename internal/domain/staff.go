package domain

import "time"

// CompanyRole enumerates roles a staff member can hold within one company.
type CompanyRole string

const (
	CompanyRoleOwner CompanyRole = "OWNER"
	CompanyRoleAgent CompanyRole = "AGENT"
)

// MembershipStatus tracks the staff lifecycle state.
type MembershipStatus string

const (
	StatusInactive MembershipStatus = "INACTIVE"
	StatusActive   MembershipStatus = "ACTIVE"
	StatusDeleted  MembershipStatus = "DELETED"
)

// Gender is optional profile metadata.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ActivationCodeTTL is how long a freshly minted code stays valid.
const ActivationCodeTTL = 30 * time.Minute

// ActivationCode is a single-use, time-limited random token proving
// ownership of an invitation or reset request. Codes accumulate per staff;
// expiry is the only invalidation mechanism.
type ActivationCode struct {
	ID             int
	Code           string
	ExpirationDate time.Time
}

// Valid reports whether the code matches and has not expired at the given
// instant.
func (c ActivationCode) Valid(code string, now time.Time) bool {
	return c.Code == code && c.ExpirationDate.After(now)
}

// Staff is a company-scoped account. TaxIdentificationNumber identifies the
// company the membership belongs to and stays nil until assignment.
type Staff struct {
	Identity
	CompanyRole             CompanyRole
	Status                  MembershipStatus
	TaxIdentificationNumber *string
	BirthDate               *time.Time
	IdentityDocument        string
	JobTitle                string
	Address                 string
	Phone                   string
	Gender                  Gender
	ActivationCodes         []ActivationCode
}

// SetDefaultNoCompany prepares a self-registered staff record: inactive,
// owner-to-be of a company not yet created.
func (s *Staff) SetDefaultNoCompany() {
	s.Status = StatusInactive
	s.CompanyRole = CompanyRoleOwner
	s.TaxIdentificationNumber = nil
}

// SetNewCompanyUserDefault prepares an invited staff record: inactive and
// credential-less until the invitation is accepted.
func (s *Staff) SetNewCompanyUserDefault() {
	s.Status = StatusInactive
	s.PasswordHash = ""
}

// HasCompany reports whether the membership has been assigned a company.
func (s *Staff) HasCompany() bool {
	return s.TaxIdentificationNumber != nil
}

// FindValidCode returns the first unexpired code matching the given value.
func (s *Staff) FindValidCode(code string, now time.Time) (ActivationCode, bool) {
	for _, ac := range s.ActivationCodes {
		if ac.Valid(code, now) {
			return ac, true
		}
	}
	return ActivationCode{}, false
}
