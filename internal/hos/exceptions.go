package hos

import (
	"strings"

	"eld-trip-service/internal/model"
	"eld-trip-service/internal/route"
)

type ExceptionKind string

const (
	ExceptionShortHaulCDL    ExceptionKind = "SHORT_HAUL_150_CDL"
	ExceptionShortHaulNonCDL ExceptionKind = "SHORT_HAUL_150_NON_CDL"
	ExceptionAdverse         ExceptionKind = "ADVERSE_CONDITIONS"
	ExceptionSixteenHour     ExceptionKind = "SIXTEEN_HOUR"
	ExceptionAgricultural    ExceptionKind = "AGRICULTURAL"
	ExceptionConstruction    ExceptionKind = "CONSTRUCTION"
)

// ShortHaulRadiusMiles is the air-mile radius for both §395.1(e) exceptions.
const ShortHaulRadiusMiles = 150.0

// Exception couples a catalog entry with its relaxation semantics. The
// relaxations only ever reduce violations; reported hours never change.
type Exception struct {
	Kind        ExceptionKind
	Name        string
	CFRSection  string
	Description string
	Conditions  []string
	Benefits    []string
}

var exceptionCatalog = []Exception{
	{
		Kind:        ExceptionShortHaulCDL,
		Name:        "150 Air-Mile Radius (CDL)",
		CFRSection:  "49 CFR §395.1(e)(1)",
		Description: "Exception for CDL drivers operating within a 150 air-mile radius of the work reporting location",
		Conditions: []string{
			"Return to normal work location within 14 consecutive hours",
			"Stay within 150 air-mile radius of work location",
			"Have at least 10 consecutive hours off duty between shifts",
			"Employer maintains time records for 6 months",
		},
		Benefits: []string{
			"No ELD or logbook required (time records only)",
			"30-minute break not required",
			"No RODS required if conditions met",
		},
	},
	{
		Kind:        ExceptionShortHaulNonCDL,
		Name:        "150 Air-Mile Radius (Non-CDL)",
		CFRSection:  "49 CFR §395.1(e)(2)",
		Description: "Exception for non-CDL drivers operating short distances",
		Conditions: []string{
			"CMV does not require CDL",
			"Work within 150 air-mile radius",
			"Return to work location daily",
			"Specific hour limitations apply",
		},
		Benefits: []string{
			"No logbook required",
			"30-minute break not required",
			"Time records maintained by employer",
		},
	},
	{
		Kind:        ExceptionAdverse,
		Name:        "Adverse Driving Conditions",
		CFRSection:  "49 CFR §395.1(b)(1)",
		Description: "Allows extra driving time for unexpected conditions",
		Conditions: []string{
			"Conditions could not be anticipated before dispatch",
			"Not typical rush hour traffic",
			"Driver must annotate the condition in RODS",
		},
		Benefits: []string{
			"Up to 2 additional hours of driving time",
			"Extension of the 14-hour window by 2 hours",
			"Complete current run despite conditions",
		},
	},
	{
		Kind:        ExceptionSixteenHour,
		Name:        "16-Hour Short-Haul",
		CFRSection:  "49 CFR §395.1(o)",
		Description: "Extend the driving window to 16 hours once per week",
		Conditions: []string{
			"Return to the work reporting location",
			"Released from duty within 16 hours",
			"Usable once every 7 consecutive days",
			"Not combinable with the non-CDL short-haul exception",
		},
		Benefits: []string{
			"Extend the 14-hour window to 16 hours",
			"Once every 7 consecutive days",
			"Available again after a 34-hour restart",
		},
	},
	{
		Kind:        ExceptionAgricultural,
		Name:        "Agricultural Operations",
		CFRSection:  "49 CFR §395.1(k)",
		Description: "HOS limits do not apply to agricultural commodity transport within 150 air-miles of the source during planting and harvesting seasons",
		Conditions: []string{
			"Transporting agricultural commodities from the source",
			"Within 150 air-miles of the source",
			"During state-designated planting and harvesting periods",
		},
		Benefits: []string{
			"Driving, window, break and cycle limits do not apply within the radius",
		},
	},
	{
		Kind:        ExceptionConstruction,
		Name:        "Construction Materials and Equipment",
		CFRSection:  "49 CFR §395.1(m)",
		Description: "Drivers transporting construction materials within a 75 air-mile radius may restart the cycle after 24 hours off duty",
		Conditions: []string{
			"Transporting construction materials or equipment",
			"Within a 75 air-mile radius of the normal work reporting location",
		},
		Benefits: []string{
			"24-hour restart instead of 34 hours",
		},
	},
}

// LookupException resolves a declared exception name or kind, matching
// case-insensitively on the kind identifier and the display name.
func LookupException(name string) (Exception, bool) {
	needle := strings.ToUpper(strings.TrimSpace(name))
	for _, e := range exceptionCatalog {
		if string(e.Kind) == needle || strings.ToUpper(e.Name) == needle {
			return e, true
		}
	}
	return Exception{}, false
}

// ExceptionSet is the capability set attached to a trip: the exceptions the
// evaluator may consult when relaxing rule checks.
type ExceptionSet map[ExceptionKind]bool

func (s ExceptionSet) Has(kind ExceptionKind) bool {
	return s[kind]
}

// EligibleExceptions derives the capability set from trip parameters.
// Eligibility is decided here, declaratively; the allocator stays
// single-pathed and the evaluator only consumes the set.
func EligibleExceptions(plan model.TripPlan) ExceptionSet {
	set := make(ExceptionSet)

	if plan.AdverseConditions {
		set[ExceptionAdverse] = true
	}
	if plan.AgriculturalSource && withinRadius(plan, ShortHaulRadiusMiles) {
		set[ExceptionAgricultural] = true
	}
	if plan.ConstructionMaterials {
		set[ExceptionConstruction] = true
	}

	// Short-haul needs the dropoff within the air-mile radius and the whole
	// run completable inside one 14-hour shift (return same day). Without
	// coordinates the radius cannot be verified and no relief is granted.
	if withinRadius(plan, ShortHaulRadiusMiles) && plan.TotalEstimatedHours()*60+PickupMinutes+DropoffMinutes <= WindowMinutes {
		if plan.RequiresCDL {
			set[ExceptionShortHaulCDL] = true
		} else {
			set[ExceptionShortHaulNonCDL] = true
		}
	}

	if plan.RequiresCDL && !set.Has(ExceptionShortHaulNonCDL) {
		set[ExceptionSixteenHour] = true
	}

	return set
}

// ApplicableExceptions renders the eligible set as catalog entries for the
// trip result payload.
func ApplicableExceptions(plan model.TripPlan) []model.ExceptionInfo {
	set := EligibleExceptions(plan)
	out := make([]model.ExceptionInfo, 0, len(set))
	for _, e := range exceptionCatalog {
		if !set.Has(e.Kind) {
			continue
		}
		out = append(out, model.ExceptionInfo{
			Name:        e.Name,
			CFRSection:  e.CFRSection,
			Description: e.Description,
			Conditions:  e.Conditions,
			Benefits:    e.Benefits,
		})
	}
	return out
}

// CatalogInfo renders the full catalog for the reference endpoint.
func CatalogInfo() []model.ExceptionInfo {
	out := make([]model.ExceptionInfo, 0, len(exceptionCatalog))
	for _, e := range exceptionCatalog {
		out = append(out, model.ExceptionInfo{
			Name:        e.Name,
			CFRSection:  e.CFRSection,
			Description: e.Description,
			Conditions:  e.Conditions,
			Benefits:    e.Benefits,
		})
	}
	return out
}

func withinRadius(plan model.TripPlan, radiusMiles float64) bool {
	if plan.CurrentCoord == nil || plan.DropoffCoord == nil {
		return false
	}
	return route.AirMiles(*plan.CurrentCoord, *plan.DropoffCoord) <= radiusMiles
}
