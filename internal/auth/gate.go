package auth

// Capability checks derived from the current role. Pure reads, consumed by
// handlers deciding which operations to permit.

func (s *Service) role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.User.Role
}

func (s *Service) IsAdmin() bool {
	return s.role() == RoleAdmin
}

func (s *Service) IsBuyer() bool {
	return s.role() == RoleBuyer
}

func (s *Service) CanEditProducts() bool {
	return s.role() == RoleAdmin
}

func (s *Service) CanAddFavourite() bool {
	return s.role() == RoleBuyer
}

// CanViewCart is unconditionally true: anonymous visitors may browse the
// cart; checkout itself requires authentication.
func (s *Service) CanViewCart() bool {
	return true
}
