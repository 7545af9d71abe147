package bridge

import (
	"regexp"
	"strings"
)

// CommandKind names the catalog operation a question routes to.
type CommandKind string

const (
	KindProduct        CommandKind = "product"
	KindSearch         CommandKind = "search"
	KindAdvancedFilter CommandKind = "advanced_filter"
	KindCategories     CommandKind = "categories"
	KindLowStock       CommandKind = "low_stock"
	KindStats          CommandKind = "stats"
	KindUnknown        CommandKind = "unknown"
)

// Command is the routing decision for one question. Arg carries the SKU or
// search keyword when the kind needs one.
type Command struct {
	Kind CommandKind
	Arg  string
}

// skuPatterns detect an explicit product identifier in the question. The
// capture must still pass skuShape before it is trusted.
var skuPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sku\s*(\w+)`),
	regexp.MustCompile(`product\s*(\w+)`),
	regexp.MustCompile(`item\s*(\w+)`),
	regexp.MustCompile(`code\s*(\w+)`),
	regexp.MustCompile(`\b(\d{5,})\b`),
	regexp.MustCompile(`details?\s+of\s+(\w+)`),
	regexp.MustCompile(`about\s+(\w+)`),
	regexp.MustCompile(`tell\s+me\s+about\s+(\w+)`),
}

var skuShape = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)

var advancedFilterIndicators = []string{
	"filter", "where", "with", "having", "between", "under", "over",
	"more than", "less than", "greater than", "cheaper than", "expensive",
	"price range", "size", "warehouse", "sort by",
}

var statsIndicators = []string{
	"statistics", "stats", "breakdown", "summary", "overview", "how many", "distribution",
}

var categoryIndicators = []string{
	"categor", "type", "kind", "what do you sell", "what products",
}

var lowStockIndicators = []string{
	"low stock", "running low", "out of stock", "inventory low", "stock level",
}

// productKeywords are common product nouns that route straight to keyword
// search with the noun as the term.
var productKeywords = []string{
	"shirt", "tshirt", "t-shirt", "polo", "hoodie", "jacket", "pants",
	"jeans", "dress", "shoes", "electronics", "phone", "laptop",
	"computer", "watch", "bag", "backpack",
}

// Classify routes a free-text question to a catalog operation using cheap
// rule matching. Questions no rule claims return KindUnknown; the caller
// may then hand classification to the language model.
func Classify(question string) Command {
	lower := strings.ToLower(question)

	if sku := findSKU(lower); sku != "" {
		return Command{Kind: KindProduct, Arg: sku}
	}

	if containsAny(lower, statsIndicators) {
		return Command{Kind: KindStats}
	}
	if containsAny(lower, advancedFilterIndicators) {
		return Command{Kind: KindAdvancedFilter}
	}
	if containsAny(lower, categoryIndicators) {
		return Command{Kind: KindCategories}
	}
	if containsAny(lower, lowStockIndicators) {
		return Command{Kind: KindLowStock}
	}

	for _, keyword := range productKeywords {
		if strings.Contains(lower, keyword) {
			return Command{Kind: KindSearch, Arg: keyword}
		}
	}

	return Command{Kind: KindUnknown}
}

// findSKU returns the first plausible SKU token in the question, or "".
func findSKU(lower string) string {
	for _, pattern := range skuPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		if skuShape.MatchString(match[1]) {
			return match[1]
		}
	}
	return ""
}

func containsAny(s string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

// ParseLLMCommand interprets the one-line command the model replies with
// during fallback classification (e.g. "SEARCH:shirts", "LOW_STOCK").
func ParseLLMCommand(reply string) Command {
	reply = strings.TrimSpace(reply)
	switch {
	case strings.HasPrefix(reply, "SKU:"):
		return Command{Kind: KindProduct, Arg: strings.TrimSpace(strings.TrimPrefix(reply, "SKU:"))}
	case strings.HasPrefix(reply, "SEARCH:"):
		return Command{Kind: KindSearch, Arg: strings.TrimSpace(strings.TrimPrefix(reply, "SEARCH:"))}
	case strings.HasPrefix(reply, "FILTER:"):
		return Command{Kind: KindSearch, Arg: strings.TrimSpace(strings.TrimPrefix(reply, "FILTER:"))}
	case reply == "CATEGORIES":
		return Command{Kind: KindCategories}
	case reply == "LOW_STOCK":
		return Command{Kind: KindLowStock}
	case reply == "STATS":
		return Command{Kind: KindStats}
	default:
		return Command{Kind: KindUnknown}
	}
}
