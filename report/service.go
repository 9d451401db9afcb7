package report

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/batipro-erp/batipro-erp/internal/billing"
	"github.com/batipro-erp/batipro-erp/internal/finance"
)

// Service turns billing read models into cached PDFs. Concurrent
// requests for the same page share one Gotenberg round trip through
// the singleflight group.
type Service struct {
	logger    *slog.Logger
	billing   *billing.Service
	gotenberg *Client
	cache     *PDFCache
	group     singleflight.Group
}

func NewService(logger *slog.Logger, billingSvc *billing.Service, gotenberg *Client, cache *PDFCache) *Service {
	return &Service{
		logger:    logger,
		billing:   billingSvc,
		gotenberg: gotenberg,
		cache:     cache,
	}
}

func (s *Service) renderCached(ctx context.Context, kind, html string) ([]byte, error) {
	key := s.cache.Key(kind, html)

	if pdf, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("pdf cache read failed", slog.Any("error", err))
	} else if pdf != nil {
		return pdf, nil
	}

	out, err, _ := s.group.Do(key, func() (interface{}, error) {
		pdf, err := s.gotenberg.RenderHTML(ctx, html)
		if err != nil {
			return nil, fmt.Errorf("gotenberg render: %w", err)
		}
		if err := s.cache.Set(ctx, key, pdf); err != nil {
			s.logger.Warn("pdf cache write failed", slog.Any("error", err))
		}
		return pdf, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// DocumentPDF renders one devis, facture or bon de livraison.
func (s *Service) DocumentPDF(ctx context.Context, documentID int64) ([]byte, string, error) {
	detail, err := s.billing.Detail(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	html, err := BuildDocumentHTML(*detail)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderCached(ctx, "document", html)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s.pdf", detail.Number)
	return pdf, filename, nil
}

// ReceivablesPDF renders the créances report over the given window.
func (s *Service) ReceivablesPDF(ctx context.Context, window finance.DateWindow) ([]byte, error) {
	rep, err := s.billing.Receivables(ctx, window)
	if err != nil {
		return nil, err
	}
	html, err := BuildReceivablesHTML(*rep, window)
	if err != nil {
		return nil, err
	}
	return s.renderCached(ctx, "receivables", html)
}
