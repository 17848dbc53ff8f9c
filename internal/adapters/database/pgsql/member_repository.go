package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// PgxMemberRepository reads station membership.
type PgxMemberRepository struct {
	BaseRepository
}

var _ portsrepo.StationMemberReader = (*PgxMemberRepository)(nil)

func (r *PgxMemberRepository) FindMember(ctx context.Context, stationID, userID string) (*domain.StationMember, error) {
	var m domain.StationMember
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, station_id, role, joined_at
		FROM station_members
		WHERE station_id = $1 AND user_id = $2;
	`, stationID, userID).Scan(&m.UserID, &m.StationID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, translate(fmt.Sprintf("membership of user %s in station %s", userID, stationID), err)
	}
	return &m, nil
}
