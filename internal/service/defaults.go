package service

import "github.com/alppdcjr12/wrap-notes-sub000/internal/models"

// DefaultTemplates returns the templates a new library starts with.
func DefaultTemplates() []*models.Template {
	return []*models.Template{
		{
			ID:       "home-visit",
			Name:     "Home visit",
			Category: "contact",
			Content: "On (---td---), (---u---) met with (---c---) and (---g---) at (---l---). " +
				"The purpose of the visit was to address (---cg---). " +
				"(---c---) presented with (---ap---) appearance and (---af---) affect. " +
				"(---u---) used (---in---) while (---p1b@3@---) completed (---a---). " +
				"(---c---) responded with (---rs---). " +
				"Plan: (---pl---).",
		},
		{
			ID:       "collateral-contact",
			Name:     "Collateral contact",
			Category: "contact",
			Content: "(---u---) contacted (---co---) by (---cm---) regarding (---c---). " +
				"They discussed (---tp---) and reviewed (---ed---). " +
				"(---co---) reported (---be---). " +
				"Follow-up: (---fu---).",
		},
		{
			ID:       "progress-summary",
			Name:     "Progress summary",
			Category: "summary",
			Content: "(---c---) continues to work toward (---cg---). " +
				"Since the last contact, (---cp1---) has shown (---pg---). " +
				"Strengths noted include (---st---). " +
				"Barriers include (---ba---). " +
				"(---u---) will (---fu---).",
		},
		{
			ID:       "risk-screen",
			Name:     "Risk screen",
			Category: "safety",
			Content: "(---u---) completed a safety check with (---c---) on (---dt---) at (---tm---). " +
				"(---c---) reported (---mo---) mood and (---sy---). " +
				"Risk factors reviewed: (---ri---). " +
				"(---cu---).",
		},
	}
}
