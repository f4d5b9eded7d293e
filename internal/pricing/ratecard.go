package pricing

// Rate holds the four unit prices for one trailer model, in whole dollars
type Rate struct {
	Hourly  int64
	Daily   int64
	Weekly  int64
	Monthly int64
}

// RateCard maps trailer-model names to unit prices. It is populated once
// at startup and never mutated afterwards; lookups by unknown model are a
// normal outcome, not a fault.
type RateCard map[string]Rate

// DefaultRateCard returns the production rate table. A configured card
// replaces it entirely.
func DefaultRateCard() RateCard {
	return RateCard{
		"6 x 12 Cargo Trailer":        {Hourly: 20, Daily: 55, Weekly: 300, Monthly: 1900},
		"7 x 16 Utility Pipe Trailer": {Hourly: 25, Daily: 65, Weekly: 350, Monthly: 1100},
		"7 x 20 Utility Trailer":      {Hourly: 30, Daily: 75, Weekly: 300, Monthly: 1300},
		"6 x 12 Car Hauler":           {Hourly: 40, Daily: 95, Weekly: 600, Monthly: 2000},
		"7 x 16 Utility Ramp Trailer": {Hourly: 25, Daily: 65, Weekly: 350, Monthly: 1100},
		"5 x 10 Utility Trailer":      {Hourly: 15, Daily: 45, Weekly: 250, Monthly: 750},
	}
}

// Models returns the model names present in the card
func (rc RateCard) Models() []string {
	models := make([]string, 0, len(rc))
	for model := range rc {
		models = append(models, model)
	}
	return models
}
