package registry

import (
	"sort"
	"strings"
)

// SDK module families published under @sfpro/sdk/abi.
const (
	ModuleMain       = "main"
	ModuleCore       = "core"
	ModuleAutomation = "automation"
)

// Contract maps a canonical contract name to the module family and export
// that carry its ABI.
type Contract struct {
	Name   string
	Module string
	Export string
}

// SDKImport is the import path a TypeScript consumer would use for c.
func (c Contract) SDKImport() string {
	if c.Module == ModuleMain {
		return "@sfpro/sdk/abi"
	}
	return "@sfpro/sdk/abi/" + c.Module
}

var contracts = []Contract{
	{Name: "CFAv1Forwarder", Module: ModuleMain, Export: "cfaForwarderAbi"},
	{Name: "GDAv1Forwarder", Module: ModuleMain, Export: "gdaForwarderAbi"},
	{Name: "SuperfluidPool", Module: ModuleMain, Export: "gdaPoolAbi"},
	{Name: "SuperToken", Module: ModuleMain, Export: "superTokenAbi"},

	{Name: "Superfluid", Module: ModuleCore, Export: "hostAbi"},
	{Name: "ConstantFlowAgreementV1", Module: ModuleCore, Export: "cfaAbi"},
	{Name: "GeneralDistributionAgreementV1", Module: ModuleCore, Export: "gdaAbi"},
	{Name: "InstantDistributionAgreementV1", Module: ModuleCore, Export: "idaAbi"},
	{Name: "SuperTokenFactory", Module: ModuleCore, Export: "superTokenFactoryAbi"},
	{Name: "BatchLiquidator", Module: ModuleCore, Export: "batchLiquidatorAbi"},
	{Name: "TOGA", Module: ModuleCore, Export: "togaAbi"},
	{Name: "Governance", Module: ModuleCore, Export: "governanceAbi"},

	{Name: "AutoWrapManager", Module: ModuleAutomation, Export: "autoWrapManagerAbi"},
	{Name: "AutoWrapStrategy", Module: ModuleAutomation, Export: "autoWrapStrategyAbi"},
	{Name: "FlowScheduler", Module: ModuleAutomation, Export: "flowSchedulerAbi"},
	{Name: "VestingSchedulerV3", Module: ModuleAutomation, Export: "vestingSchedulerV3Abi"},
}

// Shorthand aliases, keyed in lowercase.
var aliases = map[string]string{
	"cfaforwarder":       "CFAv1Forwarder",
	"gdaforwarder":       "GDAv1Forwarder",
	"pool":               "SuperfluidPool",
	"gdapool":            "SuperfluidPool",
	"supertoken":         "SuperToken",
	"token":              "SuperToken",
	"host":               "Superfluid",
	"cfa":                "ConstantFlowAgreementV1",
	"gda":                "GeneralDistributionAgreementV1",
	"ida":                "InstantDistributionAgreementV1",
	"supertokenfactory":  "SuperTokenFactory",
	"factory":            "SuperTokenFactory",
	"batchliquidator":    "BatchLiquidator",
	"liquidator":         "BatchLiquidator",
	"toga":               "TOGA",
	"governance":         "Governance",
	"autowrapmanager":    "AutoWrapManager",
	"autowrap":           "AutoWrapManager",
	"autowrapstrategy":   "AutoWrapStrategy",
	"flowscheduler":      "FlowScheduler",
	"vestingschedulerv3": "VestingSchedulerV3",
	"vestingscheduler":   "VestingSchedulerV3",
	"vesting":            "VestingSchedulerV3",
}

// Well-known contracts that are deliberately absent from the SDK, with the reason.
var unsupported = map[string]string{
	"CFASuperAppBase":     "abstract base contract",
	"SuperTokenV1Library": "Solidity library",
}

func Contracts() []Contract {
	return append([]Contract(nil), contracts...)
}

func ContractByName(name string) (Contract, bool) {
	for _, c := range contracts {
		if c.Name == name {
			return c, true
		}
	}
	return Contract{}, false
}

// Alias returns the canonical name for a lowercase shorthand.
func Alias(short string) (string, bool) {
	name, ok := aliases[short]
	return name, ok
}

func AliasNames() []string {
	out := make([]string, 0, len(aliases))
	for k := range aliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Unsupported reports whether query names a known contract missing from the SDK.
func Unsupported(query string) (name, reason string, ok bool) {
	for name, reason := range unsupported {
		if strings.EqualFold(name, query) {
			return name, reason, true
		}
	}
	return "", "", false
}

// Modules lists the module families in table order without duplicates.
func Modules() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, c := range contracts {
		if !seen[c.Module] {
			seen[c.Module] = true
			out = append(out, c.Module)
		}
	}
	return out
}
