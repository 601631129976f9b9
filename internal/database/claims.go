package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

// ClaimRepository handles database operations for verified claims. Claims are
// append-mostly: inserted by the research and factcheck steps, never updated.
type ClaimRepository struct {
	db *sql.DB
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *sql.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Insert stores a new claim. A claim stored as verified must carry a
// confidence score.
func (r *ClaimRepository) Insert(ctx context.Context, claim *domain.VerifiedClaim) error {
	if claim.VerificationStatus == domain.ClaimVerified && claim.ConfidenceScore == nil {
		return fmt.Errorf("verified claim %q has no confidence score", claim.ClaimText)
	}

	if claim.ID == "" {
		claim.ID = uuid.New().String()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO verified_claims (
			id, client_id, claim_text, claim_type, source_url, source_text,
			verification_status, confidence_score, verified_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, execErr := r.db.ExecContext(ctx, query,
		claim.ID,
		claim.ClientID,
		claim.ClaimText,
		string(claim.ClaimType),
		nullString(claim.SourceURL),
		nullString(claim.SourceText),
		string(claim.VerificationStatus),
		claim.ConfidenceScore,
		claim.VerifiedAt,
		claim.CreatedAt,
	)
	if execErr != nil {
		return fmt.Errorf("insert claim: %w", execErr)
	}

	return nil
}

// ListVerified returns all verified claims for a client ordered by confidence
// descending. A non-positive limit returns every claim.
func (r *ClaimRepository) ListVerified(ctx context.Context, clientID string, limit int) ([]domain.VerifiedClaim, error) {
	query := `
		SELECT id, client_id, claim_text, claim_type, source_url, source_text,
		       verification_status, confidence_score, verified_at, created_at
		FROM verified_claims
		WHERE client_id = $1 AND verification_status = 'verified'
		ORDER BY confidence_score DESC NULLS LAST
	`
	args := []any{clientID}

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("query verified claims: %w", queryErr)
	}
	defer rows.Close()

	var claims []domain.VerifiedClaim
	for rows.Next() {
		var (
			claim      domain.VerifiedClaim
			sourceURL  sql.NullString
			sourceText sql.NullString
		)

		scanErr := rows.Scan(
			&claim.ID,
			&claim.ClientID,
			&claim.ClaimText,
			&claim.ClaimType,
			&sourceURL,
			&sourceText,
			&claim.VerificationStatus,
			&claim.ConfidenceScore,
			&claim.VerifiedAt,
			&claim.CreatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan claim row: %w", scanErr)
		}

		claim.SourceURL = sourceURL.String
		claim.SourceText = sourceText.String
		claims = append(claims, claim)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("claim rows: %w", rowsErr)
	}

	return claims, nil
}
