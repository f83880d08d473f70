package authstate

import (
	"context"
	"log/slog"
	"strings"
)

// Detector maps an identity to its role set using a fixed priority chain:
// superadmin email allow-list, superadmin ID allow-list, typed metadata
// claims, best-effort privilege probe, then email-domain heuristics. The
// first match wins.
type Detector struct {
	superadminEmails []string
	superadminIDs    []string
	adminDomains     []string
	managerDomains   []string
	checker          PrivilegeChecker
	logger           *slog.Logger
}

// NewDetector constructs a Detector. The checker may be nil, in which case
// the remote probe step is skipped.
func NewDetector(cfg Config, checker PrivilegeChecker, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		superadminEmails: lowerAll(cfg.SuperadminEmails),
		superadminIDs:    cfg.SuperadminIDs,
		adminDomains:     lowerAll(cfg.AdminDomains),
		managerDomains:   lowerAll(cfg.ManagerDomains),
		checker:          checker,
		logger:           logger,
	}
}

// Detect returns a non-empty role set for the identity. Detection never
// fails: a panic anywhere in the chain degrades to the default user role.
func (d *Detector) Detect(ctx context.Context, ident Identity) (roles []Role) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("role detection panicked", slog.Any("panic", r), slog.String("user_id", ident.ID))
			roles = []Role{RoleUser}
		}
	}()

	email := strings.ToLower(strings.TrimSpace(ident.Email))

	for _, allowed := range d.superadminEmails {
		if allowed != "" && allowed == email {
			return []Role{RoleSuperadmin}
		}
	}
	for _, allowed := range d.superadminIDs {
		if allowed != "" && allowed == ident.ID {
			return []Role{RoleSuperadmin}
		}
	}

	if claims, ok := decodeClaims(ident.UserMetadata); ok && claims.Elevated() {
		return []Role{RoleSuperadmin}
	}
	if claims, ok := decodeClaims(ident.AppMetadata); ok && claims.Elevated() {
		return []Role{RoleSuperadmin}
	}

	if d.checker != nil && ident.ID != "" {
		elevated, err := d.checker.IsSuperadmin(ctx, ident.ID)
		if err != nil {
			d.logger.Warn("privilege check failed", slog.Any("error", err), slog.String("user_id", ident.ID))
		} else if elevated {
			return []Role{RoleSuperadmin}
		}
	}

	if domain := emailDomain(email); domain != "" {
		for _, d := range d.adminDomains {
			if d == domain {
				return []Role{RoleAdmin}
			}
		}
		for _, d := range d.managerDomains {
			if d == domain {
				return []Role{RoleManager}
			}
		}
	}

	return []Role{RoleUser}
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
