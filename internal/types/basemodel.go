package types

import (
	"context"
	"time"
)

// BaseModel carries the audit columns every persisted document has
type BaseModel struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: GetActorID(ctx),
		UpdatedBy: GetActorID(ctx),
	}
}

// Touch stamps the document as modified by the actor in ctx
func (b *BaseModel) Touch(ctx context.Context) {
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = GetActorID(ctx)
}

// GetActorID returns the user id in ctx, falling back to DefaultUserID
func GetActorID(ctx context.Context) string {
	if userID := GetUserID(ctx); userID != "" {
		return userID
	}
	return DefaultUserID
}
