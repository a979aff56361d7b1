// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"meridian/internal/service/order/domain"
)

// orderModel 是订单在 MySQL 中的存储形态。
type orderModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	ProductID string `gorm:"size:64"`
	Quantity  int
	Status    string `gorm:"size:16;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toDomain() *domain.Order {
	return &domain.Order{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GormRepository 是 OrderRepository 的 MySQL 实现，通过配置选用。
// 默认策略仍然是内存存储；这里只是把存储能力做成可替换的。
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(dsn string) (*GormRepository, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err := db.AutoMigrate(&orderModel{}); err != nil {
		return nil, errors.Wrap(err, "migrate orders table")
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	now := time.Now()
	model := &orderModel{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		Status:    string(domain.StatusPending),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, errors.Wrap(err, "insert order")
	}
	return model.toDomain(), nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	// WHERE status = PENDING 同时实现了"终态只写一次"与
	// "未知 ID 为 no-op"：两种情况都只是 0 行受影响。
	err := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
	return errors.Wrap(err, "update order status")
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model orderModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return model.toDomain(), nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	var models []orderModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	out := make([]*domain.Order, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}
