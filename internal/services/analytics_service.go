package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/pkg/logger"
)

const (
	defaultTopPartners   = 10
	partnerHistoryLimit  = 50
	historyFetchParallel = 4
)

// AnalyticsService aggregates program counters. Revenue and order counts come
// straight from partner records; per-partner order history is looked up in
// Shopify by discount code.
type AnalyticsService interface {
	Program(ctx context.Context, shop *models.Shop, params *models.AnalyticsParams) (*models.ProgramAnalytics, error)
	PartnerHistory(ctx context.Context, shop *models.Shop, partnerID string, params *models.AnalyticsParams) (*models.PartnerHistory, error)
	TopPartnerHistories(ctx context.Context, shop *models.Shop, params *models.AnalyticsParams) ([]*models.PartnerHistory, error)
}

type analyticsService struct {
	partners interfaces.PartnerRepository
	orders   OrderGateway
	logger   *logger.Logger
}

func NewAnalyticsService(partners interfaces.PartnerRepository, orders OrderGateway, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		partners: partners,
		orders:   orders,
		logger:   log,
	}
}

func (s *analyticsService) Program(ctx context.Context, shop *models.Shop, params *models.AnalyticsParams) (*models.ProgramAnalytics, error) {
	partners, err := s.partners.List(ctx, shop)
	if err != nil {
		return nil, err
	}

	analytics := &models.ProgramAnalytics{}
	stats := make([]models.PartnerStats, 0, len(partners))

	for _, p := range partners {
		if params.Profession != "" && !strings.EqualFold(p.Profession, params.Profession) {
			continue
		}

		analytics.TotalRevenue += p.Revenue
		analytics.TotalOrders += p.OrdersCount
		analytics.TotalCreditPaid += p.CreditPaid
		if p.Active {
			analytics.ActivePartners++
		}

		stats = append(stats, models.PartnerStats{
			PartnerID:   p.ID,
			Name:        strings.TrimSpace(p.FirstName + " " + p.LastName),
			Profession:  p.Profession,
			PromoCode:   p.PromoCode,
			Revenue:     p.Revenue,
			OrdersCount: p.OrdersCount,
			CreditPaid:  p.CreditPaid,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Revenue > stats[j].Revenue
	})

	top := params.Top
	if top <= 0 {
		top = defaultTopPartners
	}
	if top > len(stats) {
		top = len(stats)
	}
	analytics.TopPartners = stats[:top]

	return analytics, nil
}

func (s *analyticsService) PartnerHistory(ctx context.Context, shop *models.Shop, partnerID string, params *models.AnalyticsParams) (*models.PartnerHistory, error) {
	partner, err := s.partners.GetByID(ctx, shop, partnerID)
	if err != nil {
		return nil, err
	}
	return s.historyFor(ctx, shop, partner, params)
}

// TopPartnerHistories fetches order history for the top partners by revenue.
// Each history is one or more search calls, so the fetches run concurrently
// with a bounded group.
func (s *analyticsService) TopPartnerHistories(ctx context.Context, shop *models.Shop, params *models.AnalyticsParams) ([]*models.PartnerHistory, error) {
	program, err := s.Program(ctx, shop, params)
	if err != nil {
		return nil, err
	}

	partners, err := s.partners.List(ctx, shop)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Partner, len(partners))
	for _, p := range partners {
		byID[p.ID] = p
	}

	histories := make([]*models.PartnerHistory, len(program.TopPartners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFetchParallel)

	for i, stat := range program.TopPartners {
		partner, ok := byID[stat.PartnerID]
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			history, err := s.historyFor(gctx, shop, partner, params)
			if err != nil {
				return err
			}
			histories[i] = history
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*models.PartnerHistory, 0, len(histories))
	for _, h := range histories {
		if h != nil {
			result = append(result, h)
		}
	}
	return result, nil
}

func (s *analyticsService) historyFor(ctx context.Context, shop *models.Shop, partner *models.Partner, params *models.AnalyticsParams) (*models.PartnerHistory, error) {
	if partner.PromoCode == "" {
		return &models.PartnerHistory{PartnerID: partner.ID}, nil
	}

	orders, err := s.orders.SearchByCode(ctx, shop, partner.PromoCode, params.From, params.To, partnerHistoryLimit)
	if err != nil {
		return nil, err
	}

	return &models.PartnerHistory{
		PartnerID: partner.ID,
		PromoCode: partner.PromoCode,
		Orders:    orders,
	}, nil
}
