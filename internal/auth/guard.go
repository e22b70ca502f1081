package auth

import "github.com/Domenick1991/airtickets/internal/domain"

// AuthorizeTicketAccess lets administrators through and otherwise only the
// ticket owner.
func AuthorizeTicketAccess(p domain.Principal, t *domain.Ticket) error {
	if p.IsAdmin() {
		return nil
	}
	if t != nil && p.UserID != 0 && p.UserID == t.UserID {
		return nil
	}
	return domain.ErrForbidden
}
