package models

// Landing page marketing content. Static in this surface; served as one
// payload so the client renders the whole page from a single fetch.

type LandingContent struct {
	Hero       HeroContent   `json:"hero"`
	HowItWorks []LandingStep `json:"how_it_works"`
	Pricing    PricingPlan   `json:"pricing"`
	Cities     []string      `json:"cities"`
}

type HeroContent struct {
	Title             string     `json:"title"`
	Subtitle          string     `json:"subtitle"`
	SearchPlaceholder string     `json:"search_placeholder"`
	Stats             []HeroStat `json:"stats"`
}

type HeroStat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type LandingStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PricingPlan struct {
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
	Note         string   `json:"note"`
}
