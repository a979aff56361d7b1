// internal/service/order/application/dto.go
package application

import (
	"strings"

	"github.com/pkg/errors"
)

// CreateOrderRequest 是创建订单的入站 DTO。
type CreateOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Validate 校验请求的基本约束。
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return errors.New("productId is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be a positive integer")
	}
	return nil
}
