package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rinday2005/cinema-checkout/pkg/logger"
	"github.com/rinday2005/cinema-checkout/pkg/qr"
	"github.com/rinday2005/cinema-checkout/pkg/util"
)

// QRService builds wallet transfer payloads and renders them as images.
type QRService interface {
	GenerateRequest(ctx context.Context, amount int64, note string) (*QRRequest, error)
	Render(ctx context.Context, payload string) ([]byte, error)
}

type qrService struct {
	l        logger.Logger
	renderer qr.Renderer
}

func NewQRService(renderer qr.Renderer, l logger.Logger) QRService {
	return &qrService{
		l:        l,
		renderer: renderer,
	}
}

// GenerateRequest builds a momo transfer intent. Every call produces a
// fresh order reference, so a retried submit is a new order on the
// wallet side.
func (s *qrService) GenerateRequest(ctx context.Context, amount int64, note string) (*QRRequest, error) {
	code, err := util.GenerateCode(4)
	if err != nil {
		s.l.Errorf(ctx, "qrService.GenerateRequest: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	amt := decimal.NewFromInt(amount)
	orderRef := fmt.Sprintf("MOMO_%d_%s", time.Now().UnixMilli(), code)
	payload := fmt.Sprintf(
		"momo://transfer?amount=%s&note=%s&orderId=%s",
		amt.String(),
		url.QueryEscape(note),
		orderRef,
	)

	return &QRRequest{
		Payload:  payload,
		OrderRef: orderRef,
		Amount:   amt,
		Note:     note,
	}, nil
}

func (s *qrService) Render(ctx context.Context, payload string) ([]byte, error) {
	img, err := s.renderer.Render(payload)
	if err != nil {
		s.l.Errorf(ctx, "qrService.Render: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return img, nil
}
