package repository

import (
	"sort"
	"time"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// Seed dataset served when the backing store is unreachable. Reads
// degrade to this fixed data instead of failing; the values are the
// development sample set the rest of the system was built against.
func sampleScores() []model.CountryScore {
	now := model.NowISO()
	return []model.CountryScore{
		{
			Code: "US", Country: "United States",
			SRSD: 4.2, SRSI: 6.7, GSCS: 5.2, SGM: 5.2, STI: 45,
			Category:    "Soft Supremacism",
			Description: "The United States exhibits soft supremacism patterns with institutional inequalities despite formal legal equality. Historical patterns persist in economic and social structures.",
			EventCount:  42, AvgTone: -2.7,
			Latitude: 37.0902, Longitude: -95.7129,
			UpdatedAt: now,
		},
		{
			Code: "CN", Country: "China",
			SRSD: 7.1, SRSI: 6.8, GSCS: 7.0, SGM: 7.0, STI: 75,
			Category:    "Structural Supremacism",
			Description: "China demonstrates structural supremacism with notable inequalities at societal and governmental levels. Minority populations face systemic discrimination and there are expansionist tendencies in foreign policy.",
			EventCount:  37, AvgTone: -3.5,
			Latitude: 35.8617, Longitude: 104.1954,
			UpdatedAt: now,
		},
		{
			Code: "SE", Country: "Sweden",
			SRSD: 1.8, SRSI: 1.6, GSCS: 1.7, SGM: 1.7, STI: 15,
			Category:    "Non-Supremacist Governance",
			Description: "Sweden demonstrates strong egalitarian governance with robust institutions protecting equality. Social welfare systems minimize power disparities between groups.",
			EventCount:  8, AvgTone: 3.1,
			Latitude: 60.1282, Longitude: 18.6435,
			UpdatedAt: now,
		},
		{
			Code: "ZA", Country: "South Africa",
			SRSD: 5.1, SRSI: 3.2, GSCS: 4.1, SGM: 4.1, STI: 48,
			Category:    "Soft Supremacism",
			Description: "South Africa shows signs of soft supremacism despite strong constitutional protections. Post-apartheid transition continues with economic disparities along historical lines.",
			EventCount:  28, AvgTone: -1.2,
			Latitude: -30.5595, Longitude: 22.9375,
			UpdatedAt: now,
		},
	}
}

func sampleACLEDEvents() []model.ACLEDEvent {
	day := 24 * time.Hour
	date := func(daysAgo int) string {
		return time.Now().UTC().Add(-time.Duration(daysAgo) * day).Format("2006-01-02")
	}
	return []model.ACLEDEvent{
		{
			EventID: "acled-1", EventDate: date(0),
			EventType: "Violence against civilians",
			Actor1:    "Military Forces", Actor2: "Civilians",
			Country: "Somalia", Location: "Mogadishu",
			Latitude: 2.0469, Longitude: 45.3182,
			Fatalities: 3, Intensity: 7,
			Notes: "Military forces attacked civilians in Mogadishu",
		},
		{
			EventID: "acled-2", EventDate: date(2),
			EventType: "Battle",
			Actor1:    "Rebel Group", Actor2: "Government Forces",
			Country: "Sudan", Location: "Khartoum",
			Latitude: 15.5007, Longitude: 32.5599,
			Fatalities: 12, Intensity: 9,
			Notes: "Rebel forces engaged in battle with government troops",
		},
		{
			EventID: "acled-3", EventDate: date(5),
			EventType: "Riots",
			Actor1:    "Protesters", Actor2: "Police Forces",
			Country: "Nigeria", Location: "Lagos",
			Latitude: 6.5244, Longitude: 3.3792,
			Fatalities: 0, Intensity: 6,
			Notes: "Riots broke out in Lagos after fuel price increases",
		},
	}
}

// sampleScoresProjected returns the seed scores with limit and the
// details projection applied, sorted by code for stable output.
func sampleScoresProjected(limit int, includeDetails bool) []model.CountryScore {
	scores := sampleScores()
	sort.Slice(scores, func(i, j int) bool { return scores[i].Code < scores[j].Code })
	if limit > 0 && limit < len(scores) {
		scores = scores[:limit]
	}
	if !includeDetails {
		for i := range scores {
			scores[i] = stripDetails(scores[i])
		}
	}
	return scores
}
