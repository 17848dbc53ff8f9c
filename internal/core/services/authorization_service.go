package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
)

// memberRoleChecker answers role questions from station membership.
type memberRoleChecker struct {
	members portsrepo.StationMemberReader
}

// NewMemberRoleChecker creates a RoleChecker backed by the station_members table.
func NewMemberRoleChecker(members portsrepo.StationMemberReader) portssvc.RoleChecker {
	return &memberRoleChecker{members: members}
}

func (c *memberRoleChecker) HasRole(ctx context.Context, userID, stationID string, role domain.StationRole) (bool, error) {
	m, err := c.members.FindMember(ctx, stationID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.Role == role, nil
}

// authorizationService applies the station policy table through a RoleChecker.
type authorizationService struct {
	roles portssvc.RoleChecker
}

// NewAuthorizationService creates the station authorizer.
func NewAuthorizationService(roles portssvc.RoleChecker) portssvc.StationAuthorizerSvc {
	return &authorizationService{roles: roles}
}

var _ portssvc.StationAuthorizerSvc = (*authorizationService)(nil)

func (s *authorizationService) AuthorizeAction(ctx context.Context, userID, stationID string, action domain.Action, kind domain.EntityKind) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	allowed := AllowedRoles(action, kind)
	for _, role := range allowed {
		ok, err := s.roles.HasRole(ctx, userID, stationID, role)
		if err != nil {
			logger.Error("Role lookup failed", slog.String("user_id", userID), slog.String("station_id", stationID), slog.String("error", err.Error()))
			return storeFailure("role lookup failed", err)
		}
		if ok {
			return nil
		}
	}

	names := make([]string, len(allowed))
	for i, r := range allowed {
		names[i] = string(r)
	}
	logger.Warn("Action refused by station policy",
		slog.String("user_id", userID),
		slog.String("station_id", stationID),
		slog.String("action", string(action)),
		slog.String("kind", string(kind)))
	target := strings.ToLower(string(kind))
	if target == "" {
		target = "station data"
	}
	return fmt.Errorf("%w: %s of %s requires one of [%s]", apperrors.ErrForbidden,
		strings.ToLower(string(action)), target, strings.Join(names, ", "))
}
