package cases

import "iat/internal/domain"

const (
	// CommandNowcastExtrapolate is the improver subcommand exercised by the built-in cases.
	CommandNowcastExtrapolate = "nowcast-extrapolate"

	// ExtrapolateWithJSONFile is the name of the primary acceptance case.
	ExtrapolateWithJSONFile = "extrapolate with json file"
)

// Flags accepted by nowcast-extrapolate.
const (
	FlagJSONFile              = "json_file"
	FlagMaxLeadTime           = "max_lead_time"
	FlagLeadTimeInterval      = "lead_time_interval"
	FlagUAndVFilepath         = "u_and_v_filepath"
	FlagOrographicEnhancement = "orographic_enhancement_filepaths"
	FlagAdvectionSpeed        = "advection_speed_filepath"
	FlagAdvectionDirection    = "advection_direction_filepath"
	FlagPressureLevel         = "pressure_level"
	FlagAccumulationFidelity  = "accumulation_fidelity"
)

const (
	opticalFlowDir = "nowcast-optical-flow/basic/"
	extrapolateDir = "nowcast-extrapolate/extrapolate/"

	radarInput    = opticalFlowDir + "201811031600_radar_rainrate_composite_UK_regridded.nc"
	uvInput       = extrapolateDir + "20181103T1600Z-PT0000H00M-advection_velocities.nc"
	oroEnhInput   = extrapolateDir + "20181103T1600Z-PT0003H00M-orographic_enhancement.nc"
	windSpeed     = extrapolateDir + "20181103T1600Z-PT0000H00M-wind_speed_on_pressure_levels.nc"
	windDirection = extrapolateDir + "20181103T1600Z-PT0000H00M-wind_direction_on_pressure_levels.nc"
)

// ExtrapolateWithJSON is the acceptance case:
//
//	improver nowcast-extrapolate INPUT OUTPUT --json_file JSON --max_lead_time 90 \
//	    --u_and_v_filepath UV --orographic_enhancement_filepaths OE
func ExtrapolateWithJSON() domain.Case {
	return domain.Case{
		Command: CommandNowcastExtrapolate,
		Name:    ExtrapolateWithJSONFile,
		Inputs:  []string{radarInput},
		Output:  domain.DefaultOutputName,
		Options: []domain.Option{
			{Flag: FlagJSONFile, Paths: []string{"nowcast-extrapolate/extrapolate_json/precip.json"}},
			{Flag: FlagMaxLeadTime, Values: []string{"90"}},
			{Flag: FlagUAndVFilepath, Paths: []string{uvInput}},
			{Flag: FlagOrographicEnhancement, Paths: []string{oroEnhInput}},
		},
		KGO:    "nowcast-extrapolate/extrapolate_json/kgo.nc",
		Source: "builtin",
	}
}

func builtinCases() []domain.Case {
	return []domain.Case{
		ExtrapolateWithJSON(),
		{
			Command: CommandNowcastExtrapolate,
			Name:    "basic extrapolation",
			Inputs:  []string{radarInput},
			Options: []domain.Option{
				{Flag: FlagMaxLeadTime, Values: []string{"90"}},
				{Flag: FlagUAndVFilepath, Paths: []string{uvInput}},
				{Flag: FlagOrographicEnhancement, Paths: []string{oroEnhInput}},
			},
			KGO:    "nowcast-extrapolate/extrapolate/kgo.nc",
			Source: "builtin",
		},
		{
			Command: CommandNowcastExtrapolate,
			Name:    "extrapolate with speed and direction",
			Inputs:  []string{radarInput},
			Options: []domain.Option{
				{Flag: FlagMaxLeadTime, Values: []string{"90"}},
				{Flag: FlagAdvectionSpeed, Paths: []string{windSpeed}},
				{Flag: FlagAdvectionDirection, Paths: []string{windDirection}},
				{Flag: FlagPressureLevel, Values: []string{"75000"}},
				{Flag: FlagOrographicEnhancement, Paths: []string{oroEnhInput}},
			},
			KGO:    "nowcast-extrapolate/extrapolate_speed_direction/kgo.nc",
			Source: "builtin",
		},
		{
			Command: CommandNowcastExtrapolate,
			Name:    "extrapolate with accumulations",
			Inputs:  []string{radarInput},
			Options: []domain.Option{
				{Flag: FlagMaxLeadTime, Values: []string{"90"}},
				{Flag: FlagLeadTimeInterval, Values: []string{"15"}},
				{Flag: FlagAccumulationFidelity, Values: []string{"5"}},
				{Flag: FlagUAndVFilepath, Paths: []string{uvInput}},
				{Flag: FlagOrographicEnhancement, Paths: []string{oroEnhInput}},
			},
			KGO:    "nowcast-extrapolate/extrapolate_accumulation/kgo.nc",
			Source: "builtin",
		},
	}
}
