package datastore

// DefaultEntries is the standard mapping from logical dataset names to the
// files a ReEDS run directory produces. Year-dependent files carry
// {solve_year} or {weather_year} templates resolved at store construction.
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "hierarchy", File: "inputs_case/hierarchy.csv"},
		{Name: "online_capacity", File: "outputs/cap.csv"},
		{Name: "heat_rate", File: "outputs/heat_rate.csv"},
		{Name: "fuels", File: "inputs_case/fuel2tech.csv"},
		{Name: "fuel_price", File: "outputs/repbioprice.csv", Optional: true},
		{Name: "cost_vom", File: "outputs/cost_vom.csv", Optional: true},
		{Name: "forced_outages", File: "inputs_case/outage_forced_static.csv", Optional: true},
		{Name: "planned_outages", File: "inputs_case/outage_scheduled_static.csv", Optional: true},
		{Name: "storage_duration", File: "inputs_case/storage_duration.csv", Optional: true},
		{Name: "storage_eff", File: "inputs_case/storinmaxfrac.csv", Optional: true},
		{Name: "ilr", File: "inputs_case/ilr.csv", Optional: true},
		{Name: "emission_rates", File: "outputs/emit_rate.csv", Optional: true},
		{Name: "transmission_capacity", File: "outputs/tran_out.csv"},
		{Name: "transmission_losses", File: "inputs_case/tranloss.csv", Optional: true},
		{Name: "load", File: "outputs/load_{weather_year}.csv"},
		{Name: "reserves", File: "outputs/opres_supply_h.csv", Optional: true},
		{Name: "cf", File: "outputs/cf_rep_{weather_year}.csv", Optional: true},
		{Name: "years", File: "inputs_case/modeledyears.csv", Optional: true},
	}
}
