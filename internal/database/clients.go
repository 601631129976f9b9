package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

// ClientRepository handles database operations for clients.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a new client record.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	if client.ResearchStatus == "" {
		client.ResearchStatus = domain.ResearchPending
	}

	researchJSON, sourceJSON, marshalErr := marshalClientBlobs(client)
	if marshalErr != nil {
		return marshalErr
	}

	query := `
		INSERT INTO clients (
			id, name, website_url, industry, business_research, source_content,
			brand_guide, research_status, last_researched_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, execErr := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.WebsiteURL,
		nullString(client.Industry),
		researchJSON,
		sourceJSON,
		nullRaw(client.BrandGuide),
		string(client.ResearchStatus),
		client.LastResearchedAt,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if execErr != nil {
		return fmt.Errorf("insert client: %w", execErr)
	}

	return nil
}

// GetByID fetches a client by id.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `
		SELECT id, name, website_url, industry, business_research, source_content,
		       brand_guide, research_status, last_researched_at, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var (
		client       domain.Client
		industry     sql.NullString
		researchJSON []byte
		sourceJSON   []byte
		guideJSON    []byte
	)

	scanErr := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.WebsiteURL,
		&industry,
		&researchJSON,
		&sourceJSON,
		&guideJSON,
		&client.ResearchStatus,
		&client.LastResearchedAt,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get client: %w", scanErr)
	}

	client.Industry = industry.String
	client.BrandGuide = guideJSON

	if len(researchJSON) > 0 {
		client.BusinessResearch = &domain.BusinessResearch{}
		if err := json.Unmarshal(researchJSON, client.BusinessResearch); err != nil {
			return nil, fmt.Errorf("unmarshal business research: %w", err)
		}
	}

	if len(sourceJSON) > 0 {
		if err := json.Unmarshal(sourceJSON, &client.SourceContent); err != nil {
			return nil, fmt.Errorf("unmarshal source content: %w", err)
		}
	}

	return &client, nil
}

// SaveResearch overwrites the client's research fields wholesale and marks
// research completed. The research step owns these fields exclusively.
func (r *ClientRepository) SaveResearch(
	ctx context.Context,
	clientID string,
	research *domain.BusinessResearch,
	sourceContent map[string]string,
) error {
	researchJSON, marshalErr := json.Marshal(research)
	if marshalErr != nil {
		return fmt.Errorf("marshal business research: %w", marshalErr)
	}

	sourceJSON, marshalErr := json.Marshal(sourceContent)
	if marshalErr != nil {
		return fmt.Errorf("marshal source content: %w", marshalErr)
	}

	now := time.Now().UTC()

	query := `
		UPDATE clients
		SET business_research = $2,
		    source_content = $3,
		    research_status = $4,
		    last_researched_at = $5,
		    updated_at = $5
		WHERE id = $1
	`

	result, execErr := r.db.ExecContext(ctx, query,
		clientID, researchJSON, sourceJSON, string(domain.ResearchCompleted), now)
	if execErr != nil {
		return fmt.Errorf("save research: %w", execErr)
	}

	return requireRowAffected(result, "client", clientID)
}

// SaveBrandGuide overwrites the client's brand guide wholesale. The brand
// step owns this field exclusively.
func (r *ClientRepository) SaveBrandGuide(ctx context.Context, clientID string, guide json.RawMessage) error {
	query := `
		UPDATE clients
		SET brand_guide = $2, updated_at = $3
		WHERE id = $1
	`

	result, execErr := r.db.ExecContext(ctx, query, clientID, []byte(guide), time.Now().UTC())
	if execErr != nil {
		return fmt.Errorf("save brand guide: %w", execErr)
	}

	return requireRowAffected(result, "client", clientID)
}

func marshalClientBlobs(client *domain.Client) (researchJSON, sourceJSON []byte, err error) {
	if client.BusinessResearch != nil {
		researchJSON, err = json.Marshal(client.BusinessResearch)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal business research: %w", err)
		}
	}

	if client.SourceContent != nil {
		sourceJSON, err = json.Marshal(client.SourceContent)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal source content: %w", err)
		}
	}

	return researchJSON, sourceJSON, nil
}

func requireRowAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
