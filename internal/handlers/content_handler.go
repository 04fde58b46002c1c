package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/internal/models"
)

// ContentHandler serves the static marketing copy rendered on the
// landing page. Kept server-side so copy changes ship without a
// client release.
type ContentHandler struct {
	landing models.LandingContent
}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{landing: defaultLandingContent()}
}

func (h *ContentHandler) GetLandingContent(c *fiber.Ctx) error {
	return c.JSON(h.landing)
}

func defaultLandingContent() models.LandingContent {
	return models.LandingContent{
		Hero: models.HeroContent{
			Title:             "TRANSFORME SEU CORPO",
			Subtitle:          "Encontre os melhores personal trainers da sua região. Treinos personalizados, resultados reais.",
			SearchPlaceholder: "Digite sua cidade ou bairro...",
			Stats: []models.HeroStat{
				{Value: "500+", Label: "Trainers Ativos"},
				{Value: "10K+", Label: "Alunos Satisfeitos"},
				{Value: "50+", Label: "Cidades"},
			},
		},
		HowItWorks: []models.LandingStep{
			{Title: "Busque", Description: "Encontre personal trainers na sua região usando nosso sistema de busca avançado"},
			{Title: "Escolha", Description: "Compare perfis, avaliações, especialidades e valores para encontrar o trainer ideal"},
			{Title: "Treine", Description: "Agende suas sessões e receba treinos personalizados para seus objetivos"},
			{Title: "Evolua", Description: "Acompanhe sua evolução e conquiste resultados que você nunca imaginou"},
		},
		Pricing: models.PricingPlan{
			Name:         "Trainer Pro",
			PriceMonthly: 29.90,
			Currency:     "BRL",
			Features: []string{
				"Perfil profissional completo",
				"Postar vídeos e dicas",
				"Montagem de treinos personalizados",
				"Destaque nas buscas",
				"Comentários e interação com alunos",
				"Suporte prioritário",
				"Sem taxas sobre agendamentos",
			},
			Note: "Cancele quando quiser. Sem compromisso.",
		},
		Cities: []string{"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Curitiba", "Porto Alegre", "Brasília"},
	}
}
