package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExampleListings is the catalog shown when no database is configured. Each
// call returns fresh copies.
func ExampleListings() []*Listing {
	base := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	at := func(daysAgo int) time.Time {
		return base.AddDate(0, 0, -daysAgo)
	}

	listings := []*Listing{
		{
			ID:            "exemplo-1",
			Title:         "Apartamento Moderno no Centro",
			Type:          "Apartamento",
			Price:         "R$ 450.000",
			PriceValue:    decimal.NewFromInt(450000),
			Location:      "Centro, Belo Horizonte",
			Bedrooms:      3,
			Bathrooms:     2,
			Suites:        1,
			Area:          95,
			CoveredGarage: true,
			Featured:      true,
			Images:        []string{"/modern-apartment-living-room.png"},
			Notes:         "Condomínio com portaria 24h, academia e salão de festas. Próximo a metrô e comércio.",
			CreatedAt:     at(0),
		},
		{
			ID:            "exemplo-2",
			Title:         "Casa de Luxo com Piscina",
			Type:          "Casa",
			Price:         "R$ 1.200.000",
			PriceValue:    decimal.NewFromInt(1200000),
			Location:      "Savassi, Belo Horizonte",
			Bedrooms:      4,
			Bathrooms:     3,
			Suites:        2,
			Area:          280,
			CoveredGarage: true,
			Featured:      true,
			Images:        []string{"/luxury-house-with-pool.png"},
			Notes:         "Piscina aquecida, área gourmet com churrasqueira e jardim paisagístico.",
			CreatedAt:     at(1),
		},
		{
			ID:            "exemplo-3",
			Title:         "Cobertura Vista para o Mar",
			Type:          "Cobertura",
			Price:         "R$ 2.500.000",
			PriceValue:    decimal.NewFromInt(2500000),
			Location:      "Pampulha, Belo Horizonte",
			Bedrooms:      5,
			Bathrooms:     4,
			Suites:        3,
			Area:          350,
			CoveredGarage: true,
			Featured:      false,
			Images:        []string{"/penthouse-ocean-view.png"},
			Notes:         "Terraço com vista panorâmica, jacuzzi e espaço para eventos.",
			CreatedAt:     at(2),
		},
		{
			ID:            "exemplo-4",
			Title:         "Studio Compacto e Funcional",
			Type:          "Studio",
			Price:         "R$ 280.000",
			PriceValue:    decimal.NewFromInt(280000),
			Location:      "Funcionários, Belo Horizonte",
			Bedrooms:      1,
			Bathrooms:     1,
			Suites:        0,
			Area:          45,
			CoveredGarage: false,
			Featured:      false,
			Images:        []string{"/compact-studio-apartment.png"},
			Notes:         "Ideal para investimento. Mobiliado, próximo a universidades.",
			CreatedAt:     at(3),
		},
		{
			ID:            "exemplo-5",
			Title:         "Casa em Condomínio Fechado",
			Type:          "Casa",
			Price:         "R$ 850.000",
			PriceValue:    decimal.NewFromInt(850000),
			Location:      "Belvedere, Belo Horizonte",
			Bedrooms:      3,
			Bathrooms:     3,
			Suites:        1,
			Area:          220,
			CoveredGarage: true,
			Featured:      false,
			Images:        []string{"/gated-community-house.png"},
			Notes:         "Condomínio com segurança 24h, área verde e playground.",
			CreatedAt:     at(4),
		},
		{
			ID:            "exemplo-6",
			Title:         "Loft Industrial Reformado",
			Type:          "Loft",
			Price:         "R$ 620.000",
			PriceValue:    decimal.NewFromInt(620000),
			Location:      "Santa Efigênia, Belo Horizonte",
			Bedrooms:      2,
			Bathrooms:     2,
			Suites:        0,
			Area:          120,
			CoveredGarage: true,
			Featured:      false,
			Images:        []string{"/industrial-loft.png"},
			Notes:         "Pé-direito duplo, tijolos aparentes e acabamento industrial.",
			CreatedAt:     at(5),
		},
	}

	for _, l := range listings {
		l.UpdatedAt = l.CreatedAt
		l.syncCover()
	}
	return listings
}
