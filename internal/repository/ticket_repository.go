package repository

import (
	"context"

	"gorm.io/gorm"

	"rackops-backend/internal/model"
)

type TicketRepository interface {
	FindAll(ctx context.Context) ([]model.Ticket, error)
	FindByID(ctx context.Context, id int64) (*model.Ticket, error)
	Create(ctx context.Context, ticket *model.Ticket) error
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) FindAll(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.db.WithContext(ctx).Order("id").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id int64) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).First(&ticket, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// UpdateStatus changes the status column of a single row and nothing
// else. The affected-row count lets callers distinguish a missing id.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *ticketRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Delete(&model.Ticket{}, ids)
	return res.RowsAffected, res.Error
}
