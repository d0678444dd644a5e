package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Profile struct {
	UserID       int       `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Avatar       string    `json:"avatar"`
	Sex          *string   `json:"sex,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
	Addresses    []Address `json:"addresses,omitempty"`
}

type Address struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	District   string    `json:"district"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ZipCode    string    `json:"zip_code"`
	Complement string    `json:"complement"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserWithProfile struct {
	User
	Profile *Profile `json:"profile,omitempty"`
}

type ProfilePatch struct {
	Sex          *string    `json:"sex" binding:"omitempty,oneof=M F O"`
	RegisteredAt *time.Time `json:"registered_at"`
}

func (p ProfilePatch) Apply(profile *Profile) {
	if p.Sex != nil {
		sex := *p.Sex
		profile.Sex = &sex
	}
	if p.RegisteredAt != nil {
		profile.RegisteredAt = *p.RegisteredAt
	}
}

type AddressPatch struct {
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	State      *string `json:"state" binding:"omitempty,uf"`
	ZipCode    *string `json:"zip_code" binding:"omitempty,max=9"`
	Complement *string `json:"complement"`
}

func (p AddressPatch) Apply(address *Address) {
	if p.Street != nil {
		address.Street = *p.Street
	}
	if p.Number != nil {
		address.Number = *p.Number
	}
	if p.District != nil {
		address.District = *p.District
	}
	if p.City != nil {
		address.City = *p.City
	}
	if p.State != nil {
		address.State = *p.State
	}
	if p.ZipCode != nil {
		address.ZipCode = *p.ZipCode
	}
	if p.Complement != nil {
		address.Complement = *p.Complement
	}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on resources owned by ownerID.
func (a Actor) CanAccess(ownerID int) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
