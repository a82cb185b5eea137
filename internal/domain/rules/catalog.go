package rules

// Catalog returns the built-in document rules in declared order.
func Catalog() []Rule {
	return []Rule{
		structTargetRef,
		configMapPolicyKey,
		securityContextPresent,
		resourceLimits,
		runAsNonRoot,
		configMapPolicySecurity,
		unresolvedPlaceholders,
		noTabs,
		noTrailingWhitespace,
		lineLength,
		orgLevelNamespace,
		repoLevelNamespace,
	}
}

// BatchCatalog returns the built-in rules that run across all documents.
func BatchCatalog() []BatchRule {
	return []BatchRule{duplicateResources}
}
