package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"iat/internal/domain"
)

func TestNCCmpParser_ParseDifferences(t *testing.T) {
	output := `DIFFER : VARIABLE : lwe_precipitation_rate : POSITION : [2,10,11] : VALUES : 1.2e-07 <> 1.3e-07 : PERCENT : 8.3
DIFFER : VARIABLE : lwe_precipitation_rate : ATTRIBUTE : units : VALUES : "m s-1" <> "mm h-1"
DIFFER : VARIABLE "forecast_period" IS MISSING ATTRIBUTE WITH NAME "units" IN FILE "kgo.nc"
DIFFER : VARIABLE "time_bnds" IS MISSING IN FILE "output.nc"
DIFFER : NAME : GLOBAL ATTRIBUTE : institution : VALUES : "Met Office" <> "MO"
DIFFER : DIMENSION : time : LENGTHS : 7 <> 6

Files "output.nc" and "kgo.nc" are identical.
nccmp: something unexpected
`
	got := NewNCCmpParser().ParseDifferences(output)
	want := []domain.Difference{
		{Kind: domain.DiffData, Variable: "lwe_precipitation_rate", Detail: "VARIABLE : lwe_precipitation_rate : POSITION : [2,10,11] : VALUES : 1.2e-07 <> 1.3e-07 : PERCENT : 8.3"},
		{Kind: domain.DiffAttribute, Variable: "lwe_precipitation_rate", Attribute: "units", Detail: `VARIABLE : lwe_precipitation_rate : ATTRIBUTE : units : VALUES : "m s-1" <> "mm h-1"`},
		{Kind: domain.DiffAttribute, Variable: "forecast_period", Attribute: "units", Detail: `VARIABLE "forecast_period" IS MISSING ATTRIBUTE WITH NAME "units" IN FILE "kgo.nc"`},
		{Kind: domain.DiffVariable, Variable: "time_bnds", Detail: `VARIABLE "time_bnds" IS MISSING IN FILE "output.nc"`},
		{Kind: domain.DiffGlobalAttribute, Attribute: "institution", Detail: `NAME : GLOBAL ATTRIBUTE : institution : VALUES : "Met Office" <> "MO"`},
		{Kind: domain.DiffDimension, Variable: "time", Detail: "DIMENSION : time : LENGTHS : 7 <> 6"},
		{Kind: domain.DiffOther, Detail: "nccmp: something unexpected"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDifferences mismatch (-want +got):\n%s", diff)
	}
}

func TestNCCmpParser_IdenticalOutput(t *testing.T) {
	got := NewNCCmpParser().ParseDifferences("Files \"a.nc\" and \"b.nc\" are identical.\n")
	if len(got) != 0 {
		t.Errorf("expected no differences, got %v", got)
	}
}
