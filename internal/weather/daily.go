package weather

// Daily reduces a slot forecast to one entry per UTC calendar day: the first slot
// seen for each day, in the original order.
func (f Forecast) Daily() Forecast {
	if len(f) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(f))
	days := make(Forecast, 0, len(f)/8+1)
	for _, e := range f {
		k := e.Timestamp.UTC().Format("2006-01-02")
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		days = append(days, e)
	}
	return days
}
