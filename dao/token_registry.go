// api/dao/token_registry.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

// TokenRegistry is the durable list of bearer tokens. Entries carry no TTL
// and are only removed by hand.
type TokenRegistry interface {
	Register(ctx context.Context, token model.BearerToken) error
	Contains(ctx context.Context, token string) (bool, error)
}

// FileTokenRegistry keeps tokens in a JSON array file (tokens.json).
type FileTokenRegistry struct {
	path string
	mu   sync.Mutex
}

var _ TokenRegistry = (*FileTokenRegistry)(nil)

func NewFileTokenRegistry(dir string) (*FileTokenRegistry, error) {
	path := filepath.Join(dir, "tokens.json")
	if _, err := readJSONArray(path); err != nil {
		return nil, err
	}
	return &FileTokenRegistry{path: path}, nil
}

func (r *FileTokenRegistry) load() ([]model.BearerToken, []json.RawMessage, error) {
	raw, err := readJSONArray(r.path)
	if err != nil {
		return nil, nil, err
	}
	tokens := make([]model.BearerToken, 0, len(raw))
	for _, item := range raw {
		var t model.BearerToken
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, nil, fmt.Errorf("decode token entry: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, raw, nil
}

// Register is idempotent on the token value.
func (r *FileTokenRegistry) Register(ctx context.Context, token model.BearerToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, raw, err := r.load()
	if err != nil {
		return fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	for _, t := range tokens {
		if t.Token == token.Token {
			return nil
		}
	}

	entry, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := writeJSONArray(r.path, append(raw, entry)); err != nil {
		return fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	return nil
}

// Contains rereads the file on every call so tokens added or purged by
// hand are honoured without a restart.
func (r *FileTokenRegistry) Contains(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, _, err := r.load()
	if err != nil {
		return false, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	for _, t := range tokens {
		if t.Token == token {
			return true, nil
		}
	}
	return false, nil
}

type tokenModel struct {
	Token       string    `gorm:"primaryKey;size:128"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (tokenModel) TableName() string { return "bearer_tokens" }

// PostgresTokenRegistry keeps tokens in the bearer_tokens table.
type PostgresTokenRegistry struct {
	db *gorm.DB
}

var _ TokenRegistry = (*PostgresTokenRegistry)(nil)

func NewPostgresTokenRegistry(db *gorm.DB) (*PostgresTokenRegistry, error) {
	if err := db.AutoMigrate(&tokenModel{}); err != nil {
		return nil, fmt.Errorf("migrate bearer_tokens table: %w", err)
	}
	return &PostgresTokenRegistry{db: db}, nil
}

func (r *PostgresTokenRegistry) Register(ctx context.Context, token model.BearerToken) error {
	row := tokenModel{
		Token:       token.Token,
		Description: token.Description,
		CreatedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).
		Error
	if err != nil {
		return fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *PostgresTokenRegistry) Contains(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&tokenModel{}).
		Where("token = ?", token).
		Count(&count).
		Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	return count > 0, nil
}
