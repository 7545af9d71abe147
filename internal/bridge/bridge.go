package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/service"
	"github.com/warefront/catalog_api/internal/utils"
	"github.com/warefront/catalog_api/pkg/ollama"
)

// Bridge answers free-text catalog questions. It routes a question to a
// catalog operation, fetches the matching data, then asks the language
// model to phrase an answer grounded in that data.
type Bridge struct {
	catalog *service.CatalogService
	llm     *ollama.Client
	model   string
}

// NewBridge constructs a Bridge bound to one model name.
func NewBridge(catalog *service.CatalogService, llm *ollama.Client, model string) *Bridge {
	return &Bridge{
		catalog: catalog,
		llm:     llm,
		model:   model,
	}
}

const classifyPromptTemplate = `You route questions about a product catalog to one command.
Reply with EXACTLY ONE line, no explanation:
SKU:<sku>       - the question asks about one specific product
SEARCH:<terms>  - the question looks for products by keyword
CATEGORIES      - the question asks what categories exist
LOW_STOCK       - the question asks about low or depleted inventory
STATS           - the question asks for counts, breakdowns, or summaries

Question: %s
Command:`

const filterPromptTemplate = `Parse this product filtering request: %q

Respond with ONLY a JSON object, no markdown, no explanation, containing:
- "filters": flat object whose keys are field__operator pairs
- "ordering": array of sort fields, "-" prefix for descending
- "page_size": number of items to show (default 10)
- "search": global search term if one is mentioned, else ""

Fields and their operators:
- text (icontains, exact): title, description, sku, category, subcategory, color
- enum (exact, in): size, warehouse, status
- numeric (gte, lte, gt, lt): stock, price
Sortable fields: title, category, subcategory, stock, price, sku, color, size, warehouse, status

Examples:
"Show me blue shirts under $20 with good stock"
{"filters": {"color__icontains": "blue", "category__icontains": "shirt", "price__lte": 20, "stock__gte": 50}, "ordering": ["-stock"], "page_size": 10}

"Find size XL products sorted by price"
{"filters": {"size__exact": "XL"}, "ordering": ["price"], "page_size": 10}

JSON:`

const answerPromptTemplate = `You are a helpful product catalog assistant.
Answer the user's question using ONLY the data below. Be concise and factual.
If the data does not contain the answer, say so. Never invent products, prices, or stock numbers.

Data:
%s

Question: %s
Answer:`

// Answer handles one question end to end and returns the model's reply.
func (b *Bridge) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", utils.ErrQueryRequired
	}

	cmd := Classify(question)
	if cmd.Kind == KindUnknown {
		cmd = b.classifyWithModel(ctx, question)
	}

	data, err := b.fetch(ctx, cmd, question)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(answerPromptTemplate, data, question)
	return b.llm.Generate(ctx, b.model, prompt)
}

// classifyWithModel asks the model to route a question the rules could not.
// On any failure it falls back to keyword search over the raw question, so
// the user still gets an answer grounded in catalog data.
func (b *Bridge) classifyWithModel(ctx context.Context, question string) Command {
	prompt := fmt.Sprintf(classifyPromptTemplate, question)
	reply, err := b.llm.Generate(ctx, b.model, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Model classification failed, falling back to search")
		return Command{Kind: KindSearch, Arg: question}
	}

	cmd := ParseLLMCommand(reply)
	if cmd.Kind == KindUnknown {
		log.Debug().Str("reply", reply).Msg("Unparseable model command, falling back to search")
		return Command{Kind: KindSearch, Arg: question}
	}
	return cmd
}

// fetch runs the routed catalog operation and renders its result.
func (b *Bridge) fetch(ctx context.Context, cmd Command, question string) (string, error) {
	switch cmd.Kind {
	case KindProduct:
		product, err := b.catalog.GetProduct(cmd.Arg)
		if errors.Is(err, utils.ErrProductNotFound) {
			return fmt.Sprintf("No product found with SKU %q.\n", cmd.Arg), nil
		}
		if err != nil {
			return "", err
		}
		return RenderProduct(product), nil

	case KindSearch:
		rows, err := b.catalog.SearchProducts(cmd.Arg, 0)
		if err != nil {
			return "", err
		}
		return RenderRows(rows), nil

	case KindAdvancedFilter:
		return b.fetchFiltered(ctx, question)

	case KindCategories:
		rows, err := b.catalog.GetCategories(ctx)
		if err != nil {
			return "", err
		}
		return RenderCategories(rows), nil

	case KindLowStock:
		rows, err := b.catalog.GetLowStockProducts(service.DefaultLowStockLevel, 0)
		if err != nil {
			return "", err
		}
		return RenderLowStock(rows, service.DefaultLowStockLevel), nil

	case KindStats:
		stats, err := b.catalog.GetFilterStats(ctx, nil)
		if err != nil {
			return "", err
		}
		return RenderStats(stats), nil

	default:
		rows, err := b.catalog.SearchProducts(question, 0)
		if err != nil {
			return "", err
		}
		return RenderRows(rows), nil
	}
}

// fetchFiltered asks the model to translate the question into a filter spec
// and runs it. When the model produces unusable JSON the question degrades
// to keyword search rather than failing.
func (b *Bridge) fetchFiltered(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(filterPromptTemplate, question)
	reply, err := b.llm.Generate(ctx, b.model, prompt)
	if err != nil {
		return "", err
	}

	req, ok := parseFilterSpec(reply)
	if !ok {
		log.Warn().Str("reply", truncate(reply, 200)).Msg("Unparseable filter spec, falling back to search")
		rows, err := b.catalog.SearchProducts(question, 0)
		if err != nil {
			return "", err
		}
		return RenderRows(rows), nil
	}
	if len(req.Filters) == 0 && req.Search == "" {
		// The model produced valid JSON but nothing to narrow on; an
		// unfiltered page would answer a question nobody asked.
		rows, err := b.catalog.SearchProducts(question, 0)
		if err != nil {
			return "", err
		}
		return RenderRows(rows), nil
	}

	result, err := b.catalog.FilterProducts(req)
	if err != nil {
		return "", err
	}
	return RenderFilterResult(result), nil
}

// parseFilterSpec extracts the JSON object from a model reply. Models often
// wrap JSON in code fences or prose, so parsing starts at the first brace
// and ends at the last.
func parseFilterSpec(reply string) (query.FilterRequest, bool) {
	var req query.FilterRequest

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return req, false
	}

	if err := json.Unmarshal([]byte(reply[start:end+1]), &req); err != nil {
		return req, false
	}
	return req, true
}
