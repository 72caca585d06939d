package parser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/datastore"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/metrics"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/system"
)

// Phase names the builder stages in execution order.
type Phase string

const (
	PhaseNotStarted   Phase = "not_started"
	PhaseRegions      Phase = "regions"
	PhaseGenerators   Phase = "generators"
	PhaseTransmission Phase = "transmission"
	PhaseLoads        Phase = "loads"
	PhaseReserves     Phase = "reserves"
	PhaseEmissions    Phase = "emissions"
)

// Parser is the staged builder that turns a ReEDS run into a component
// system. Each build phase is idempotent: re-running a phase skips the
// components its cache already holds, so a failed orchestration can be
// resumed without duplicating the graph.
type Parser struct {
	cfg    *config.ReEDSConfig
	tables *config.Tables
	store  *datastore.DataStore
	sys    *system.System
	ctx    *Context

	phase          Phase
	prepared       bool
	emissionsBuilt bool
	rulesByTarget  map[string][]Rule

	regionCache        map[string]*models.Region
	generatorCache     map[string]*models.Generator
	interfaceCache     map[string]*models.Interface
	reserveRegionCache map[string]*models.ReserveRegion

	loadData *frame.Frame
}

// New creates a parser for one run. The system starts empty under the given
// name.
func New(cfg *config.ReEDSConfig, store *datastore.DataStore, name string) (*Parser, error) {
	tables, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = cfg.CaseName
	}
	sys := system.New(name)
	p := &Parser{
		cfg:                cfg,
		tables:             tables,
		store:              store,
		sys:                sys,
		phase:              PhaseNotStarted,
		regionCache:        make(map[string]*models.Region),
		generatorCache:     make(map[string]*models.Generator),
		interfaceCache:     make(map[string]*models.Interface),
		reserveRegionCache: make(map[string]*models.ReserveRegion),
	}
	p.ctx = NewContext(sys, cfg, tables, store)
	return p, nil
}

// System returns the system under construction.
func (p *Parser) System() *system.System { return p.sys }

// CurrentPhase returns the last completed builder phase.
func (p *Parser) CurrentPhase() Phase { return p.phase }

// Context returns the parser context, mainly for tests and rule authors.
func (p *Parser) Context() *Context { return p.ctx }

// ReadDataFile resolves a dataset through the store, counting the read.
func (p *Parser) ReadDataFile(name string) (*frame.LazyFrame, error) {
	lf, err := p.store.ReadData(name)
	if err != nil {
		return nil, err
	}
	metrics.DatasetsRead.WithLabelValues(name).Inc()
	ctx := context.WithValue(p.logContext(), logger.DatasetKey, name)
	logger.WithContext(ctx).Debug("dataset resolved")
	return lf, nil
}

// logContext carries the run's case name for contextual logging.
func (p *Parser) logContext() context.Context {
	return context.WithValue(context.Background(), logger.CaseKey, p.cfg.CaseName)
}

// PrepareData registers the construction rules and verifies the datasets the
// build cannot run without.
func (p *Parser) PrepareData() result.Result[struct{}] {
	if p.prepared {
		return result.Ok(struct{}{})
	}
	grouped := GetRulesByTarget(p.defaultRules())
	if grouped.IsErr() {
		return result.Err[struct{}](grouped.UnwrapErr())
	}
	p.rulesByTarget = grouped.Unwrap()

	for _, dataset := range []string{"hierarchy", "online_capacity"} {
		if check := CheckDatasetNonEmpty(p.store, dataset); check.IsErr() {
			return check
		}
	}
	p.prepared = true
	logger.Info("parser prepared",
		zap.String("case", p.cfg.CaseName),
		zap.Int("solve_year", p.cfg.PrimarySolveYear()),
		zap.Int("weather_year", p.cfg.PrimaryWeatherYear()))
	return result.Ok(struct{}{})
}

// defaultRules declares the standard rule set: how each dataset's rows name
// and fill their components.
func (p *Parser) defaultRules() []Rule {
	return []Rule{
		{
			Name:        "region",
			TargetTypes: []string{models.TypeRegion},
			Dataset:     "hierarchy",
			Identifier:  BuildRegionName,
			OptionalFields: map[string]FieldGetter{
				"description": BuildRegionDescription,
			},
		},
		{
			Name:        "transmission_interface",
			TargetTypes: []string{models.TypeInterface},
			Dataset:     "transmission_capacity",
			Identifier:  BuildTransmissionInterfaceName,
			Fields: map[string]FieldGetter{
				"from_region": LookupFromRegion,
				"to_region":   LookupToRegion,
			},
			OptionalFields: map[string]FieldGetter{
				"flow_limits": BuildTransmissionFlow,
			},
		},
		{
			Name:        "transmission_line",
			TargetTypes: []string{models.TypeLine},
			Dataset:     "transmission_capacity",
			Identifier:  BuildTransmissionLineName,
			Fields: map[string]FieldGetter{
				"interface": LookupTransmissionInterface,
			},
			OptionalFields: map[string]FieldGetter{
				"flow_limits": BuildTransmissionFlow,
			},
		},
		{
			Name:        "demand",
			TargetTypes: []string{models.TypeDemand},
			Dataset:     "load",
			Identifier:  BuildLoadName,
			Fields: map[string]FieldGetter{
				"region": LookupRegion,
			},
		},
		{
			Name:        "reserve",
			TargetTypes: []string{models.TypeReserve},
			Dataset:     "reserves",
			Identifier:  BuildReserveName,
			Fields: map[string]FieldGetter{
				"region":       LookupReserveRegion,
				"reserve_type": ResolveReserveType,
			},
			OptionalFields: map[string]FieldGetter{
				"direction": ResolveReserveDirection,
			},
		},
	}
}

// ValidateInputs checks the configured years against the run's data before
// building anything.
func (p *Parser) ValidateInputs() result.Result[struct{}] {
	if p.store.HasEntry("years") {
		required := make([]any, 0, len(p.cfg.SolveYear))
		for _, y := range p.cfg.SolveYear {
			required = append(required, y)
		}
		check := CheckRequiredValuesInColumn(p.store, "years", "", required, "Solve year(s)")
		if check.IsErr() {
			return check
		}
	}

	loadFrame, err := p.collectLoad()
	if err != nil {
		return result.Err[struct{}](errors.Wrap(err, errors.ErrorTypeValidation,
			fmt.Sprintf("Weather year %d has no load data", p.cfg.PrimaryWeatherYear())))
	}
	if loadFrame.IsEmpty() {
		return result.Err[struct{}](errors.Newf(errors.ErrorTypeValidation,
			"Weather year %d has no load data", p.cfg.PrimaryWeatherYear()))
	}
	return result.Ok(struct{}{})
}

// BuildSystemComponents runs every build phase in order.
func (p *Parser) BuildSystemComponents() result.Result[struct{}] {
	if prep := p.PrepareData(); prep.IsErr() {
		return prep
	}
	type stage struct {
		phase Phase
		run   func() result.Result[struct{}]
	}
	stages := []stage{
		{PhaseRegions, p.buildRegions},
		{PhaseGenerators, p.buildGenerators},
		{PhaseTransmission, p.buildTransmission},
		{PhaseLoads, p.buildLoads},
		{PhaseReserves, p.buildReserves},
		{PhaseEmissions, p.buildEmissions},
	}
	for _, s := range stages {
		started := time.Now()
		if r := s.run(); r.IsErr() {
			return result.Err[struct{}](errors.Wrap(r.UnwrapErr(), errors.ErrorTypeParser,
				"build phase "+string(s.phase)+" failed"))
		}
		p.phase = s.phase
		metrics.PhaseDuration.WithLabelValues(string(s.phase)).Observe(time.Since(started).Seconds())
		ctx := context.WithValue(p.logContext(), logger.PhaseKey, string(s.phase))
		logger.WithContext(ctx).Info("build phase complete")
	}
	return result.Ok(struct{}{})
}

// BuildSystem is the full translation: prepare, validate, build components,
// then attach time series.
func (p *Parser) BuildSystem() (*system.System, error) {
	if r := p.PrepareData(); r.IsErr() {
		return nil, r.UnwrapErr()
	}
	if r := p.ValidateInputs(); r.IsErr() {
		return nil, r.UnwrapErr()
	}
	if r := p.BuildSystemComponents(); r.IsErr() {
		return nil, r.UnwrapErr()
	}
	if r := p.BuildTimeSeries(); r.IsErr() {
		return nil, r.UnwrapErr()
	}
	return p.sys, nil
}

// collectNormalized reads a dataset and renames ReEDS's short columns to the
// names getters expect.
func (p *Parser) collectNormalized(dataset string, rename map[string]string) (*frame.Frame, error) {
	lf, err := p.ReadDataFile(dataset)
	if err != nil {
		return nil, err
	}
	f, err := lf.Collect()
	if err != nil {
		return nil, err
	}
	if len(rename) == 0 {
		return f, nil
	}
	return f.Rename(rename), nil
}

var capacityRename = map[string]string{
	"i":     "technology",
	"r":     "region",
	"v":     "vintage",
	"t":     "year",
	"MW":    "capacity",
	"Value": "capacity",
}

var transmissionRename = map[string]string{
	"r":     "from_region",
	"rr":    "to_region",
	"MW":    "capacity",
	"Value": "capacity",
}

var reserveRename = map[string]string{
	"ortype": "reserve_type",
	"r":      "region",
	"Value":  "value",
}

var emissionRename = map[string]string{
	"e":     "emission_type",
	"etype": "emission_source",
	"i":     "technology",
	"r":     "region",
	"v":     "vintage",
	"Value": "rate",
}

func (p *Parser) buildRegions() result.Result[struct{}] {
	hierarchy, err := p.collectNormalized("hierarchy", map[string]string{
		"*r":           "region",
		"st":           "state",
		"nercr":        "nerc_region",
		"transreg":     "transmission_region",
		"interconnect": "interconnect",
		"country":      "country",
	})
	if err != nil {
		return result.Err[struct{}](err)
	}

	rule := GetRuleForTarget(p.rulesByTarget, models.TypeRegion, "")
	if rule.IsErr() {
		return result.Err[struct{}](rule.UnwrapErr())
	}
	specs := CollectComponentSpecs(p.ctx, hierarchy, rule.Unwrap())
	if specs.IsErr() {
		return result.Err[struct{}](specs.UnwrapErr())
	}

	for _, spec := range specs.Unwrap() {
		if _, cached := p.regionCache[spec.Identifier]; cached {
			continue
		}
		description, _ := spec.Fields["description"].(string)
		region, err := models.NewRegion(models.Region{
			ComponentBase:      models.ComponentBase{Name: spec.Identifier},
			Description:        description,
			State:              stringOr(spec.Row["state"]),
			NERCRegion:         stringOr(spec.Row["nerc_region"]),
			TransmissionRegion: stringOr(spec.Row["transmission_region"]),
			Interconnect:       stringOr(spec.Row["interconnect"]),
			Country:            stringOr(spec.Row["country"]),
		})
		if err != nil {
			logger.Warn("region creation failed", zap.String("name", spec.Identifier), zap.Error(err))
			continue
		}
		if err := p.sys.AddComponent(region); err != nil {
			logger.Warn("region registration failed", zap.String("name", spec.Identifier), zap.Error(err))
			continue
		}
		p.regionCache[region.Name] = region
		metrics.ComponentsBuilt.WithLabelValues(models.TypeRegion).Inc()
	}
	return result.Ok(struct{}{})
}

func (p *Parser) buildGenerators() result.Result[struct{}] {
	capacity, err := p.collectNormalized("online_capacity", capacityRename)
	if err != nil {
		return result.Err[struct{}](err)
	}
	capacity = p.filterToSolveYear(capacity)

	optional := p.optionalGeneratorData()
	variableCategories := p.tables.GeneratorVariants.CategoriesForVariant(string(models.GeneratorVariable))
	inputs := PrepareGeneratorInputs(
		frame.Eager(capacity),
		optional,
		p.tables.Defaults.ExcludedTechs,
		p.tables.TechCategories,
		variableCategories,
	)
	if inputs.IsErr() {
		return result.Err[struct{}](inputs.UnwrapErr())
	}
	pair := inputs.Unwrap()
	variable := AggregateVariableGenerators(pair[0])
	nonVariable := pair[1]

	var rowErrors int
	for _, table := range []*frame.Frame{nonVariable, variable} {
		for _, rec := range table.Records() {
			if err := p.buildGeneratorFromRow(rec); err != nil {
				rowErrors++
				metrics.RowErrors.WithLabelValues(string(PhaseGenerators)).Inc()
				logger.Debug("generator row failed", zap.Error(err))
			}
		}
	}
	if len(p.generatorCache) == 0 {
		return result.Err[struct{}](errors.Newf(errors.ErrorTypeParser,
			"no generators could be built (%d row errors)", rowErrors))
	}
	if rowErrors > 0 {
		logger.Warn("some generator rows failed",
			zap.Int("failed", rowErrors),
			zap.Int("built", len(p.generatorCache)))
	}
	return result.Ok(struct{}{})
}

// optionalGeneratorData gathers the enrichment datasets that may be absent
// from a run.
func (p *Parser) optionalGeneratorData() map[string]*frame.LazyFrame {
	optional := make(map[string]*frame.LazyFrame)
	if lf, err := p.ReadDataFile("fuels"); err == nil {
		optional["fuel_tech_map"] = frame.NewLazy(func() (*frame.Frame, error) {
			f, err := lf.Collect()
			if err != nil {
				return nil, err
			}
			return f.Rename(map[string]string{"i": "technology", "fuel": "fuel_type"}), nil
		})
	}
	if lf, err := p.ReadDataFile("storage_duration"); err == nil {
		optional["storage_duration_out"] = frame.NewLazy(func() (*frame.Frame, error) {
			f, err := lf.Collect()
			if err != nil {
				return nil, err
			}
			return f.Rename(map[string]string{
				"i": "technology", "r": "region", "Value": "storage_duration",
			}), nil
		})
	}
	return optional
}

// filterToSolveYear keeps the rows of the primary solve year when the table
// carries a year column.
func (p *Parser) filterToSolveYear(f *frame.Frame) *frame.Frame {
	if !f.HasColumn("year") {
		return f
	}
	year := float64(p.cfg.PrimarySolveYear())
	return f.Filter(func(rec frame.Record) bool {
		v, ok := toFloat(rec["year"])
		return !ok || v == year
	})
}

func (p *Parser) buildGeneratorFromRow(rec frame.Record) error {
	nameResult := BuildGeneratorName(p.ctx, rec)
	if nameResult.IsErr() {
		return nameResult.UnwrapErr()
	}
	name := nameResult.Unwrap().(string)
	if _, cached := p.generatorCache[name]; cached {
		return nil
	}

	tech, _ := rec["technology"].(string)
	variantResult := GetGeneratorVariant(tech, p.tables.TechCategories, p.tables.GeneratorVariants)
	if variantResult.IsErr() {
		return variantResult.UnwrapErr()
	}
	variant := variantResult.Unwrap()

	regionName, _ := rec["region"].(string)
	region, ok := p.regionCache[regionName]
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"generator %s references unknown region %s", name, regionName)
	}
	capacity, _ := toFloat(rec["capacity"])
	category, _ := rec["category"].(string)

	gen := models.Generator{
		ComponentBase: models.ComponentBase{Name: name, Category: category},
		Variant:       variant,
		Technology:    tech,
		Vintage:       stringOr(rec["vintage"]),
		Region:        region,
		Capacity:      capacity,
	}
	p.applyVariantFields(&gen, rec, category)
	p.applyOperatingDefaults(&gen, category)

	created, err := models.NewGenerator(gen)
	if err != nil {
		return err
	}
	if err := p.sys.AddComponent(created); err != nil {
		return err
	}
	p.generatorCache[created.Name] = created
	metrics.ComponentsBuilt.WithLabelValues(models.TypeGenerator).Inc()
	return nil
}

// applyVariantFields fills the variant-specific fields from the row, with
// table fallbacks for fuel types and storage defaults.
func (p *Parser) applyVariantFields(gen *models.Generator, rec frame.Record, category string) {
	switch gen.Variant {
	case models.GeneratorThermal:
		if hr, ok := toFloat(rec["heat_rate"]); ok && hr > 0 {
			gen.HeatRate = hr
		} else {
			// A nominal heat rate keeps table-less test runs valid.
			gen.HeatRate = 9.0
		}
		if fuel := GetFuelType(p.ctx, rec); fuel.IsOk() {
			gen.FuelType = fuel.Unwrap().(string)
		} else if mapped, ok := p.tables.FuelTypes[category]; ok {
			gen.FuelType = mapped
		}
	case models.GeneratorStorage:
		gen.StorageDuration = GetStorageDuration(p.ctx, rec).UnwrapOr(p.tables.Defaults.StorageDuration).(float64)
		gen.RoundTripEfficiency = GetRoundTripEfficiency(p.ctx, rec).UnwrapOr(p.tables.Defaults.RoundTripEfficiency).(float64)
		gen.EnergyCapacity = gen.Capacity * gen.StorageDuration
	case models.GeneratorVariable:
		gen.ResourceClass = stringOr(rec["resource_class"])
		if ilr, ok := toFloat(rec["inverter_loading_ratio"]); ok {
			gen.InverterLoadingRatio = ilr
		}
		if mcf, ok := toFloat(rec["max_capacity_factor"]); ok {
			gen.MaxCapacityFactor = mcf
		}
		if agg, ok := rec["is_aggregated"].(bool); ok {
			gen.IsAggregated = agg
		}
	case models.GeneratorHydro:
		if dispatchable := ComputeIsDispatchable(p.ctx, rec); dispatchable.IsOk() {
			gen.IsDispatchable, _ = dispatchable.Unwrap().(bool)
		}
	case models.GeneratorConsuming:
		if eff, ok := toFloat(rec["electricity_efficiency"]); ok {
			gen.ElectricityEfficiency = eff
		}
	}

	if fo, ok := toFloat(rec["forced_outage_rate"]); ok {
		gen.ForcedOutageRate = fo
	}
	if po, ok := toFloat(rec["planned_outage_rate"]); ok {
		gen.PlannedOutageRate = po
	}
	if fp, ok := toFloat(rec["fuel_price"]); ok {
		gen.FuelPrice = fp
	}
	if vom, ok := toFloat(rec["vom_price"]); ok {
		gen.VOMCost = vom
	}
}

// applyOperatingDefaults fills unset operating parameters from the
// per-category PCM defaults table.
func (p *Parser) applyOperatingDefaults(gen *models.Generator, category string) {
	defaults, ok := p.tables.PCMDefaults[category]
	if !ok {
		return
	}
	if gen.RampRate == 0 {
		gen.RampRate = defaults["ramp_rate"]
	}
	if gen.MinStableLevel == 0 {
		gen.MinStableLevel = defaults["min_stable_level"]
	}
	if gen.StartupCost == 0 {
		gen.StartupCost = defaults["startup_cost"]
	}
}

func (p *Parser) buildTransmission() result.Result[struct{}] {
	lines, err := p.collectNormalized("transmission_capacity", transmissionRename)
	if err != nil {
		return result.Err[struct{}](err)
	}
	if lines.IsEmpty() {
		logger.Warn("transmission dataset is empty, skipping phase")
		return result.Ok(struct{}{})
	}

	// Interfaces first so line rows can resolve them.
	for _, rec := range lines.Records() {
		nameResult := BuildTransmissionInterfaceName(p.ctx, rec)
		if nameResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseTransmission)).Inc()
			continue
		}
		name := nameResult.Unwrap().(string)
		if _, cached := p.interfaceCache[name]; cached {
			continue
		}
		fromResult := LookupFromRegion(p.ctx, rec)
		toResult := LookupToRegion(p.ctx, rec)
		if fromResult.IsErr() || toResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseTransmission)).Inc()
			continue
		}
		iface := models.Interface{
			ComponentBase: models.ComponentBase{Name: name},
			FromRegion:    fromResult.Unwrap().(*models.Region),
			ToRegion:      toResult.Unwrap().(*models.Region),
		}
		if flow := BuildTransmissionFlow(p.ctx, rec); flow.IsOk() {
			limits := flow.Unwrap().(models.FromToToFrom)
			iface.FlowLimits = &limits
		}
		created, err := models.NewInterface(iface)
		if err != nil {
			logger.Warn("interface creation failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if err := p.sys.AddComponent(created); err != nil {
			logger.Warn("interface registration failed", zap.String("name", name), zap.Error(err))
			continue
		}
		p.interfaceCache[name] = created
		metrics.ComponentsBuilt.WithLabelValues(models.TypeInterface).Inc()
	}

	for _, rec := range lines.Records() {
		nameResult := BuildTransmissionLineName(p.ctx, rec)
		if nameResult.IsErr() {
			continue
		}
		name := nameResult.Unwrap().(string)
		if p.sys.HasComponent(models.TypeLine, name) {
			continue
		}
		ifaceResult := LookupTransmissionInterface(p.ctx, rec)
		if ifaceResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseTransmission)).Inc()
			continue
		}
		line := models.Line{
			ComponentBase: models.ComponentBase{Name: name},
			Interface:     ifaceResult.Unwrap().(*models.Interface),
			TRType:        stringOr(rec["trtype"]),
		}
		if flow := BuildTransmissionFlow(p.ctx, rec); flow.IsOk() {
			limits := flow.Unwrap().(models.FromToToFrom)
			line.FlowLimits = &limits
		}
		if losses, ok := toFloat(rec["loss"]); ok {
			line.Losses = losses
		}
		created, err := models.NewLine(line)
		if err != nil {
			logger.Warn("line creation failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if err := p.sys.AddComponent(created); err != nil {
			continue
		}
		metrics.ComponentsBuilt.WithLabelValues(models.TypeLine).Inc()
	}
	return result.Ok(struct{}{})
}

// collectLoad reads and caches the load table: one column per region, one
// row per hour of the weather year.
func (p *Parser) collectLoad() (*frame.Frame, error) {
	if p.loadData != nil {
		return p.loadData, nil
	}
	lf, err := p.ReadDataFile("load")
	if err != nil {
		return nil, err
	}
	f, err := lf.Collect()
	if err != nil {
		return nil, err
	}
	p.loadData = f
	return f, nil
}

// loadRegionColumns lists the load table columns that name regions,
// skipping index-like columns.
func loadRegionColumns(f *frame.Frame) []string {
	var out []string
	for _, col := range f.Columns() {
		switch col {
		case "hour", "h", "datetime", "timestamp", "index":
			continue
		}
		out = append(out, col)
	}
	return out
}

func (p *Parser) buildLoads() result.Result[struct{}] {
	loads, err := p.collectLoad()
	if err != nil {
		return result.Err[struct{}](err)
	}
	if loads.IsEmpty() {
		return result.Err[struct{}](errors.New(errors.ErrorTypeParser, "load dataset is empty"))
	}

	for _, regionName := range loadRegionColumns(loads) {
		region, ok := p.regionCache[regionName]
		if !ok {
			logger.Debug("load column has no matching region", zap.String("column", regionName))
			continue
		}
		name := regionName + "_load"
		if p.sys.HasComponent(models.TypeDemand, name) {
			continue
		}
		peak := 0.0
		for _, v := range loads.Column(regionName) {
			if f, ok := toFloat(v); ok && f > peak {
				peak = f
			}
		}
		demand, err := models.NewDemand(models.Demand{
			ComponentBase: models.ComponentBase{Name: name},
			Region:        region,
			PeakDemand:    peak,
		})
		if err != nil {
			logger.Warn("demand creation failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if err := p.sys.AddComponent(demand); err != nil {
			continue
		}
		metrics.ComponentsBuilt.WithLabelValues(models.TypeDemand).Inc()
	}
	return result.Ok(struct{}{})
}

func (p *Parser) buildReserves() result.Result[struct{}] {
	reserves, err := p.collectNormalized("reserves", reserveRename)
	if err != nil {
		logger.Warn("reserve dataset unavailable, skipping phase", zap.Error(err))
		return result.Ok(struct{}{})
	}
	if reserves.IsEmpty() {
		logger.Info("no reserve data, skipping phase")
		return result.Ok(struct{}{})
	}

	rule := GetRuleForTarget(p.rulesByTarget, models.TypeReserve, "")
	if rule.IsErr() {
		return result.Err[struct{}](rule.UnwrapErr())
	}

	for _, group := range reserves.GroupBy("region", "reserve_type") {
		regionName := stringOr(group.Key["region"])
		if regionName == "" {
			continue
		}
		if _, cached := p.reserveRegionCache[regionName]; !cached {
			rr, err := models.NewReserveRegion(models.ReserveRegion{
				ComponentBase: models.ComponentBase{Name: regionName},
			})
			if err != nil {
				continue
			}
			if err := p.sys.AddComponent(rr); err != nil {
				continue
			}
			p.reserveRegionCache[regionName] = rr
			metrics.ComponentsBuilt.WithLabelValues(models.TypeReserveRegion).Inc()
		}

		rec := group.Records[0]
		nameResult := BuildReserveName(p.ctx, rec)
		if nameResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseReserves)).Inc()
			continue
		}
		name := nameResult.Unwrap().(string)
		if p.sys.HasComponent(models.TypeReserve, name) {
			continue
		}
		typeResult := ResolveReserveType(p.ctx, rec)
		if typeResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseReserves)).Inc()
			logger.Warn("reserve row rejected", zap.Error(typeResult.UnwrapErr()))
			continue
		}
		reserveType := typeResult.Unwrap().(models.ReserveType)

		defaults := p.tables.Defaults.ReserveTypes[string(reserveType)]
		direction := models.ReserveDirectionUp
		if dirResult := ResolveReserveDirection(p.ctx, rec); dirResult.IsOk() {
			direction = dirResult.Unwrap().(models.ReserveDirection)
		} else if mapped := MapReserveDirection(defaults.Direction); mapped.IsOk() {
			direction = mapped.Unwrap()
		}

		reserve, err := models.NewReserve(models.Reserve{
			ComponentBase: models.ComponentBase{Name: name},
			Region:        p.reserveRegionCache[regionName],
			ReserveType:   reserveType,
			Direction:     direction,
			Duration:      defaults.Duration,
			TimeFrame:     defaults.TimeFrame,
		})
		if err != nil {
			logger.Warn("reserve creation failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if err := p.sys.AddComponent(reserve); err != nil {
			continue
		}
		metrics.ComponentsBuilt.WithLabelValues(models.TypeReserve).Inc()
	}
	return result.Ok(struct{}{})
}

func (p *Parser) buildEmissions() result.Result[struct{}] {
	if p.emissionsBuilt {
		return result.Ok(struct{}{})
	}
	emissions, err := p.collectNormalized("emission_rates", emissionRename)
	if err != nil {
		logger.Warn("emission dataset unavailable, skipping phase", zap.Error(err))
		return result.Ok(struct{}{})
	}

	for _, rec := range emissions.Records() {
		nameResult := BuildGeneratorName(p.ctx, rec)
		if nameResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseEmissions)).Inc()
			continue
		}
		gen, ok := p.generatorCache[nameResult.Unwrap().(string)]
		if !ok {
			// Emission rows for generators that were excluded or failed.
			continue
		}

		typeResult := ResolveEmissionType(p.ctx, rec)
		if typeResult.IsErr() {
			metrics.RowErrors.WithLabelValues(string(PhaseEmissions)).Inc()
			logger.Debug("emission row rejected", zap.Error(typeResult.UnwrapErr()))
			continue
		}
		source := models.EmissionSourceCombustion
		if sourceResult := ResolveEmissionSource(p.ctx, rec); sourceResult.IsOk() {
			source = sourceResult.Unwrap().(models.EmissionSource)
		}
		rate, _ := toFloat(rec["rate"])
		emission, err := models.NewEmission(rate, typeResult.Unwrap().(models.EmissionType), source)
		if err != nil {
			metrics.RowErrors.WithLabelValues(string(PhaseEmissions)).Inc()
			continue
		}
		if err := p.sys.AddSupplementalAttribute(gen, emission); err != nil {
			metrics.RowErrors.WithLabelValues(string(PhaseEmissions)).Inc()
		}
	}
	p.emissionsBuilt = true
	return result.Ok(struct{}{})
}

// BuildTimeSeries attaches hourly profiles: demand series from the load
// table, capacity-factor series for variable generators when available, and
// reserve requirement series derived from them.
func (p *Parser) BuildTimeSeries() result.Result[struct{}] {
	start := time.Date(p.cfg.PrimaryWeatherYear(), time.January, 1, 0, 0, 0, 0, time.UTC)

	loads, err := p.collectLoad()
	if err != nil {
		return result.Err[struct{}](err)
	}
	for _, regionName := range loadRegionColumns(loads) {
		demand, err := p.sys.GetComponent(models.TypeDemand, regionName+"_load")
		if err != nil {
			continue
		}
		data := make([]float64, 0, loads.NumRows())
		for _, v := range loads.Column(regionName) {
			f, _ := toFloat(v)
			data = append(data, f)
		}
		ts, err := models.NewSingleTimeSeries("max_active_power", start, time.Hour, data)
		if err != nil {
			continue
		}
		if err := p.sys.AddTimeSeries(ts, demand); err != nil {
			logger.Warn("demand series attach failed", zap.String("region", regionName), zap.Error(err))
		}
	}

	p.attachCapacityFactors(start)
	p.attachReserveRequirements(start)
	return result.Ok(struct{}{})
}

// attachCapacityFactors attaches per-generator capacity factor profiles from
// the optional cf dataset, keyed by technology and region columns.
func (p *Parser) attachCapacityFactors(start time.Time) {
	cf, err := p.collectNormalized("cf", map[string]string{"i": "technology", "r": "region"})
	if err != nil || cf.IsEmpty() {
		return
	}
	for _, group := range cf.GroupBy("technology", "region") {
		rec := group.Records[0]
		nameResult := BuildGeneratorName(p.ctx, rec)
		if nameResult.IsErr() {
			continue
		}
		gen, ok := p.generatorCache[nameResult.Unwrap().(string)]
		if !ok || gen.Variant != models.GeneratorVariable {
			continue
		}
		data := make([]float64, 0, len(group.Records))
		for _, r := range group.Records {
			f, _ := toFloat(r["value"])
			data = append(data, f)
		}
		ts, err := models.NewSingleTimeSeries("max_active_power", start, time.Hour, data)
		if err != nil {
			continue
		}
		if err := p.sys.AddTimeSeries(ts, gen); err != nil {
			logger.Debug("capacity factor attach failed", zap.String("generator", gen.Name))
		}
	}
}

// attachReserveRequirements computes and attaches the hourly requirement of
// every reserve from the variable generation and load in its region.
func (p *Parser) attachReserveRequirements(start time.Time) {
	reserves := p.sys.GetComponents(models.TypeReserve, nil)
	if len(reserves) == 0 {
		return
	}
	hours := frame.HoursInYear(p.cfg.PrimaryWeatherYear())

	for _, c := range reserves {
		reserve := c.(*models.Reserve)
		defaults := p.tables.Defaults.ReserveTypes[string(reserve.ReserveType)]
		wind := p.reserveContributions("wind", reserve.Region.Name)
		solar := p.reserveContributions("solar", reserve.Region.Name)
		loads := p.loadContributions(reserve.Region.Name)

		requirement := CalculateReserveRequirement(
			wind, solar, loads, hours,
			defaults.WindFraction, defaults.SolarFraction, defaults.LoadFraction,
		)
		if requirement.IsErr() {
			logger.Warn("reserve requirement not attached",
				zap.String("reserve", reserve.Name),
				zap.Error(requirement.UnwrapErr()))
			continue
		}
		ts, err := models.NewSingleTimeSeries("requirement", start, time.Hour, requirement.Unwrap())
		if err != nil {
			continue
		}
		if err := p.sys.AddTimeSeries(ts, reserve); err != nil {
			logger.Warn("reserve series attach failed", zap.String("reserve", reserve.Name))
		}
	}
}

func (p *Parser) reserveContributions(category, regionName string) []ReserveContribution {
	var out []ReserveContribution
	for _, gen := range p.generatorCache {
		if gen.Category != category || gen.Region == nil || gen.Region.Name != regionName {
			continue
		}
		ts, err := p.sys.GetTimeSeries(gen, "max_active_power")
		if err != nil {
			continue
		}
		out = append(out, ReserveContribution{Capacity: gen.Capacity, TimeSeries: ts.Data})
	}
	return out
}

func (p *Parser) loadContributions(regionName string) []ReserveContribution {
	demand, err := p.sys.GetComponent(models.TypeDemand, regionName+"_load")
	if err != nil {
		return nil
	}
	ts, err := p.sys.GetTimeSeries(demand, "max_active_power")
	if err != nil {
		return nil
	}
	return []ReserveContribution{{TimeSeries: ts.Data}}
}

func stringOr(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
