package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"partstore/internal/domain"
	"partstore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestAnalogService(repo *mockCatalogRepository) AnalogService {
	logger, _ := zap.NewDevelopment()
	pricing := NewPricingService(repo, nil, 0, logger)
	return NewAnalogService(repo, pricing, logger)
}

func analogCandidate(trademark string, price float64, remain *float64, isPrivate *bool) domain.AnalogCandidate {
	return domain.AnalogCandidate{
		Product: domain.Product{
			ID:           uuid.New(),
			Article:      "B-" + trademark,
			Title:        "Hex bolt M8 " + trademark,
			Type:         "bolt",
			Trademark:    trademark,
			Price:        price,
			PriceGroupID: uuid.New(),
		},
		Remain:    remain,
		IsPrivate: isPrivate,
	}
}

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

func TestFindAnalogs_MissingSourceProduct(t *testing.T) {
	repo := newMockCatalogRepository()
	svc := newTestAnalogService(repo)

	_, err := svc.FindAnalogs(context.Background(), uuid.New(), domain.Guest())
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestFindAnalogs_PreservesCandidateOrder(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	// The store delivers candidates already ordered: private warehouse stock
	// outranks a larger remain and a higher price elsewhere
	candidateA := analogCandidate("Zenith", 80, float64Ptr(5), boolPtr(true))
	candidateB := analogCandidate("Bolt-Co", 120, float64Ptr(10), boolPtr(false))
	repo.candidates = []domain.AnalogCandidate{candidateA, candidateB}
	repo.publicPrices[candidateA.Product.ID] = 80
	repo.publicPrices[candidateB.Product.ID] = 120

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analogs) != 2 {
		t.Fatalf("expected 2 analogs, got %d", len(analogs))
	}
	if analogs[0].Trademark != "Zenith" || analogs[1].Trademark != "Bolt-Co" {
		t.Errorf("expected order [Zenith, Bolt-Co], got [%s, %s]", analogs[0].Trademark, analogs[1].Trademark)
	}
}

func TestFindAnalogs_ExcludesCandidatesWithoutResolvablePrice(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	priced := analogCandidate("Zenith", 80, float64Ptr(5), boolPtr(true))
	unpriced := analogCandidate("Bolt-Co", 120, float64Ptr(10), boolPtr(false))
	zeroPriced := analogCandidate("Fastex", 90, nil, nil)
	repo.candidates = []domain.AnalogCandidate{priced, unpriced, zeroPriced}
	// No public price record for the second candidate; zero for the third
	repo.publicPrices[priced.Product.ID] = 80
	repo.publicPrices[zeroPriced.Product.ID] = 0

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analogs) != 1 {
		t.Fatalf("expected 1 analog, got %d", len(analogs))
	}
	if analogs[0].Trademark != "Zenith" {
		t.Errorf("expected Zenith to survive the price filter, got %s", analogs[0].Trademark)
	}
}

func TestFindAnalogs_InvariantsHold(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	source.Trademark = "Acme"
	repo.products[source.ID] = source

	same := analogCandidate("Acme", 90, nil, nil) // same trademark as source
	disabled := analogCandidate("Zenith", 70, nil, nil)
	disabled.Product.Disabled = true
	free := analogCandidate("Bolt-Co", 0, nil, nil) // non-positive base price
	good := analogCandidate("Fastex", 60, nil, nil)
	repo.candidates = []domain.AnalogCandidate{same, disabled, free, good}
	for _, c := range repo.candidates {
		repo.publicPrices[c.Product.ID] = c.Product.Price
	}

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, analog := range analogs {
		if analog.Trademark == source.Trademark {
			t.Errorf("analog %s shares the source trademark", analog.ID)
		}
		if analog.Disabled {
			t.Errorf("analog %s is disabled", analog.ID)
		}
		if analog.Price <= 0 {
			t.Errorf("analog %s has non-positive base price", analog.ID)
		}
		if analog.ResolvedPrice <= 0 {
			t.Errorf("analog %s has non-positive resolved price", analog.ID)
		}
	}
	if len(analogs) != 1 || analogs[0].Trademark != "Fastex" {
		t.Errorf("expected only Fastex to remain, got %d analogs", len(analogs))
	}
}

func TestFindAnalogs_AttachesLogoCaseInsensitively(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	withLogo := analogCandidate("ZENITH", 80, nil, nil)
	withoutLogo := analogCandidate("Bolt-Co", 70, nil, nil)
	repo.candidates = []domain.AnalogCandidate{withLogo, withoutLogo}
	repo.publicPrices[withLogo.Product.ID] = 80
	repo.publicPrices[withoutLogo.Product.ID] = 70
	repo.trademarks[strings.ToLower("Zenith")] = &domain.Trademark{
		ID:      uuid.New(),
		Title:   "Zenith",
		LogoURL: "https://cdn.example.com/zenith.png",
	}

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analogs) != 2 {
		t.Fatalf("expected 2 analogs, got %d", len(analogs))
	}
	if analogs[0].Logo == nil || analogs[0].Logo.Title != "Zenith" {
		t.Error("expected logo attached despite trademark case difference")
	}
	if analogs[1].Logo != nil {
		t.Error("expected no logo for Bolt-Co")
	}
}

func TestFindAnalogs_LogoLookupFailureExcludesCandidateOnly(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	candidate := analogCandidate("Zenith", 80, nil, nil)
	repo.candidates = []domain.AnalogCandidate{candidate}
	repo.publicPrices[candidate.Product.ID] = 80
	repo.trademarkErr = errors.New("store unavailable")

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("expected per-candidate failure to be isolated, got %v", err)
	}
	if len(analogs) != 0 {
		t.Errorf("expected failing candidate to be excluded, got %d analogs", len(analogs))
	}
}

func TestFindAnalogs_PartnerPricingAppliesPerCandidate(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	candidate := analogCandidate("Zenith", 200, float64Ptr(3), boolPtr(false))
	repo.candidates = []domain.AnalogCandidate{candidate}

	buyer := partnerBuyer(-10)

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, buyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analogs) != 1 {
		t.Fatalf("expected 1 analog, got %d", len(analogs))
	}
	if analogs[0].ResolvedPrice != 180.00 {
		t.Errorf("expected partner price 180.00, got %v", analogs[0].ResolvedPrice)
	}
	if analogs[0].Remain == nil || *analogs[0].Remain != 3 {
		t.Error("expected remain carried through to the annotated analog")
	}
}

func TestFindAnalogs_PerWarehouseRowsStayDistinct(t *testing.T) {
	repo := newMockCatalogRepository()
	source := testProduct(100)
	repo.products[source.ID] = source

	// One product stocked at two warehouses arrives as two candidate rows
	// and stays as two analogs
	product := analogCandidate("Zenith", 80, float64Ptr(9), boolPtr(true))
	second := product
	second.Remain = float64Ptr(2)
	second.IsPrivate = boolPtr(false)
	repo.candidates = []domain.AnalogCandidate{product, second}
	repo.publicPrices[product.Product.ID] = 80

	svc := newTestAnalogService(repo)

	analogs, err := svc.FindAnalogs(context.Background(), source.ID, domain.Guest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analogs) != 2 {
		t.Fatalf("expected one analog per warehouse row, got %d", len(analogs))
	}
	if *analogs[0].Remain != 9 || *analogs[1].Remain != 2 {
		t.Error("expected per-warehouse remains preserved in order")
	}
}
