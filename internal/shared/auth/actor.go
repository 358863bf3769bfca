package auth

const (
	RoleAdmin      = "admin"
	RoleHotelOwner = "hotelOwner"
	RoleCustomer   = "customer"
)

// Actor is the authenticated caller as seen by services and the store
// policies. A nil *Actor means an unauthenticated (public) request.
type Actor struct {
	ID    string
	Email string
	Role  string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

func (a *Actor) IsHotelOwner() bool {
	return a != nil && a.Role == RoleHotelOwner
}

func (a *Actor) IsCustomer() bool {
	return a != nil && a.Role == RoleCustomer
}
