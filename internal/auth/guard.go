package auth

// Capability is the closed set of access levels the API distinguishes.
type Capability int

const (
	// CapabilityAuthenticated admits any valid, non-expired credential.
	CapabilityAuthenticated Capability = iota
	// CapabilityAdmin additionally requires the ADMIN role.
	CapabilityAdmin
)

type DenialReason string

const (
	DeniedMissingCredential     DenialReason = "missing_credential"
	DeniedInvalidCredential     DenialReason = "invalid_credential"
	DeniedInsufficientRole      DenialReason = "insufficient_role"
	DeniedSelfDeletionForbidden DenialReason = "self_deletion_forbidden"
)

type Denial struct {
	Reason DenialReason
}

func (d *Denial) Error() string {
	return string(d.Reason)
}

// Guard is the single authorization gate consulted before every mutating
// or privileged operation. It is purely advisory: no side effects.
type Guard struct {
	verifier *Verifier
}

func NewGuard(verifier *Verifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authorize validates the presented credential against the required
// capability and returns the caller's identity or a typed denial.
func (g *Guard) Authorize(token string, cap Capability) (*Identity, *Denial) {
	if token == "" {
		return nil, &Denial{Reason: DeniedMissingCredential}
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return nil, &Denial{Reason: DeniedInvalidCredential}
	}

	if cap == CapabilityAdmin && !identity.IsAdmin() {
		return nil, &Denial{Reason: DeniedInsufficientRole}
	}

	return identity, nil
}

// AuthorizeUserDeletion rejects a caller deleting their own account through
// the admin delete-user operation, regardless of role.
func (g *Guard) AuthorizeUserDeletion(caller *Identity, targetUserID string) *Denial {
	if caller.ID == targetUserID {
		return &Denial{Reason: DeniedSelfDeletionForbidden}
	}
	return nil
}
