package lint

import (
	"sort"
	"sync"
)

// registry stores all rules for unified access.
var registry = &ruleRegistry{
	sqlRules:    make(map[string]SQLRule),
	corpusRules: make(map[string]CorpusRule),
}

type ruleRegistry struct {
	mu          sync.RWMutex
	sqlRules    map[string]SQLRule
	corpusRules map[string]CorpusRule
}

// RegisterSQLRule adds an SQL rule to the registry. Rules register
// themselves from init functions in their rules package.
func RegisterSQLRule(rule SQLRule) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.sqlRules[rule.ID()] = rule
}

// RegisterCorpusRule adds a corpus rule to the registry.
func RegisterCorpusRule(rule CorpusRule) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.corpusRules[rule.ID()] = rule
}

// GetAllSQLRules returns all registered SQL rules, sorted by ID.
func GetAllSQLRules() []SQLRule {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	rules := make([]SQLRule, 0, len(registry.sqlRules))
	for _, rule := range registry.sqlRules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// GetAllCorpusRules returns all registered corpus rules, sorted by ID.
func GetAllCorpusRules() []CorpusRule {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	rules := make([]CorpusRule, 0, len(registry.corpusRules))
	for _, rule := range registry.corpusRules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// GetRuleByID returns any rule by its ID, checking both registries.
func GetRuleByID(id string) (Rule, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if rule, ok := registry.sqlRules[id]; ok {
		return rule, true
	}
	if rule, ok := registry.corpusRules[id]; ok {
		return rule, true
	}
	return nil, false
}

// AllRules returns metadata for all registered rules, sorted by type then ID.
func AllRules() []RuleInfo {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	rules := make([]RuleInfo, 0, len(registry.sqlRules)+len(registry.corpusRules))
	for _, rule := range registry.sqlRules {
		rules = append(rules, GetRuleInfo(rule))
	}
	for _, rule := range registry.corpusRules {
		rules = append(rules, GetRuleInfo(rule))
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Type != rules[j].Type {
			return rules[i].Type < rules[j].Type
		}
		return rules[i].ID < rules[j].ID
	})
	return rules
}
