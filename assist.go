// Package assist answers questions about Botkyrka municipality's services.
//
// One call to Assistant.Answer runs the whole pipeline: language detection,
// intent classification, keyword translation, site search, ranking, an
// optional page scrape, answer synthesis and output cleanup. Every external
// call has its own timeout and a local fallback, so Answer always returns an
// answer.
package assist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/botkyrka/assist/intent"
	"github.com/botkyrka/assist/language"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/logger"
	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
	"github.com/botkyrka/assist/postprocess"
	"github.com/botkyrka/assist/rank"
	"github.com/botkyrka/assist/scraper"
	"github.com/botkyrka/assist/search"
	"github.com/botkyrka/assist/synth"
	"github.com/botkyrka/assist/translate"
)

// ErrEmptyMessage is returned by Validate for a blank message
var ErrEmptyMessage = errors.New("message is empty")

// minScrapeScore is the ranked search score above which the top hit is
// scraped when no discovered link qualifies
const minScrapeScore = 5

var tracer = otel.Tracer("github.com/botkyrka/assist")

// State is a pipeline stage
type State string

const (
	StateIdle              State = "idle"
	StateLanguageDetecting State = "language_detecting"
	StateTranslating       State = "translating"
	StateSearching         State = "searching"
	StateScraping          State = "scraping"
	StateSynthesizing      State = "synthesizing"
	StateDone              State = "done"
)

// Config contains pipeline configuration
type Config struct {
	Search             search.Config
	Scraper            scraper.Config
	DetectionTimeout   time.Duration
	TranslationTimeout time.Duration
	SynthesisTimeout   time.Duration
	// RequestTimeout bounds one whole Answer call. The stages before
	// synthesis share it minus SynthesisTimeout; zero means no bound.
	RequestTimeout time.Duration
}

// DefaultConfig returns default pipeline configuration
func DefaultConfig() Config {
	return Config{
		Search:             search.DefaultConfig(),
		Scraper:            scraper.DefaultConfig(),
		DetectionTimeout:   5 * time.Second,
		TranslationTimeout: 5 * time.Second,
		SynthesisTimeout:   9 * time.Second,
		RequestTimeout:     25 * time.Second,
	}
}

// Assistant runs the answer pipeline. It holds no per-request state and is
// safe for concurrent use.
type Assistant struct {
	detector   *language.Detector
	translator *translate.Translator
	search     *search.Client
	scraper    *scraper.Scraper
	synth      *synth.Synthesizer
	logger     *zap.Logger

	requestTimeout   time.Duration
	synthesisReserve time.Duration
}

// New creates an Assistant. gen may be llm.Disabled, in which case every
// model stage uses its local fallback.
func New(gen llm.Generator, config Config, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	if gen == nil {
		gen = llm.Disabled{}
	}

	reserve := config.SynthesisTimeout
	if reserve <= 0 || reserve >= config.RequestTimeout {
		reserve = config.RequestTimeout / 2
	}

	return &Assistant{
		detector:         language.NewDetector(gen, log, config.DetectionTimeout),
		translator:       translate.New(gen, log, config.TranslationTimeout),
		search:           search.New(config.Search, log),
		scraper:          scraper.New(config.Scraper, log),
		synth:            synth.New(gen, log, config.SynthesisTimeout),
		logger:           log,
		requestTimeout:   config.RequestTimeout,
		synthesisReserve: reserve,
	}
}

// Validate rejects queries the pipeline must not run for
func Validate(q models.UserQuery) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// run is the state of one Answer call
type run struct {
	state  State
	logger *zap.Logger
	meta   models.Metadata
}

func (r *run) enter(s State) {
	r.logger.Debug("pipeline stage", zap.String("from", string(r.state)), zap.String("to", string(s)))
	r.state = s
}

func (r *run) warn(stage, msg string) {
	r.meta.Warnings = append(r.meta.Warnings, stage+": "+msg)
}

// Answer resolves one user query. It never fails: stage failures degrade the
// answer and are listed in Metadata.Warnings. With a RequestTimeout it returns
// within that bound even when every collaborator hangs.
func (a *Assistant) Answer(ctx context.Context, q models.UserQuery) models.Answer {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "assist.Answer")
	defer span.End()
	defer func() {
		metrics.StageDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())
	}()

	// stageCtx runs everything before synthesis and expires early enough to
	// leave synthesis its reserved share of the request budget
	stageCtx := ctx
	if a.requestTimeout > 0 {
		var cancel, stageCancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, start.Add(a.requestTimeout))
		defer cancel()
		stageCtx, stageCancel = context.WithDeadline(ctx, start.Add(a.requestTimeout-a.synthesisReserve))
		defer stageCancel()
	}

	r := &run{
		state:  StateIdle,
		logger: logger.FromContext(ctx, a.logger),
		meta:   models.Metadata{QuestionID: uuid.NewString()},
	}
	text := strings.TrimSpace(q.Text)

	r.enter(StateLanguageDetecting)
	detected := a.detect(stageCtx, text)
	in := intent.Classify(text)
	r.meta.Language = detected.Code
	r.meta.LanguageSource = detected.Source

	sc := synth.Context{
		Message:  text,
		History:  q.History,
		Language: detected,
	}

	if text == "" || IsGreeting(text) {
		sc.Greeting = true
	} else {
		in = a.searchAndScrape(stageCtx, r, text, detected, in, &sc)
	}
	sc.Intent = in

	r.enter(StateSynthesizing)
	answer, err := a.synth.Synthesize(ctx, sc)
	if err != nil {
		r.logger.Warn("synthesis failed, using canned answer", zap.Error(err))
		r.warn("synthesis", err.Error())
		answer = synth.Fallback(sc)
	} else {
		r.meta.AIUsed = true
	}

	r.meta.IntentCategory = in.Category
	r.meta.Confidence = in.Confidence
	r.meta.QueryType = in.QueryType
	r.meta.SuggestedLinks = in.SuggestedLinks
	r.enter(StateDone)

	span.SetAttributes(
		attribute.String("assist.language", detected.Code),
		attribute.String("assist.category", in.Category),
		attribute.Bool("assist.used_scraping", r.meta.UsedScraping),
		attribute.Bool("assist.ai_used", r.meta.AIUsed),
	)
	r.logger.Info("question answered",
		zap.String("question_id", r.meta.QuestionID),
		zap.String("language", detected.Code),
		zap.String("category", in.Category),
		zap.String("query_type", string(in.QueryType)),
		zap.Bool("used_scraping", r.meta.UsedScraping),
		zap.Bool("ai_used", r.meta.AIUsed),
		zap.Int("warnings", len(r.meta.Warnings)),
		zap.Duration("duration", time.Since(start)),
	)

	return models.Answer{
		Text:     postprocess.Clean(answer),
		Language: detected.Code,
		Metadata: r.meta,
	}
}

func (a *Assistant) detect(ctx context.Context, text string) models.LanguageDetection {
	ctx, span := tracer.Start(ctx, "assist.detect")
	defer span.End()

	if text == "" {
		return language.Heuristic(text)
	}
	return a.detector.Detect(ctx, text)
}

// searchAndScrape runs the Translating, Searching and Scraping stages and
// fills the grounding part of sc. It returns the intent, refined by the
// translation's category when the message itself matched none.
func (a *Assistant) searchAndScrape(ctx context.Context, r *run, text string, detected models.LanguageDetection, in models.Intent, sc *synth.Context) models.Intent {
	foreign := detected.Code != translate.DefaultTarget

	r.enter(StateTranslating)
	tctx, tspan := tracer.Start(ctx, "assist.translate")
	tr := a.translator.Translate(tctx, text, detected.Code, translate.DefaultTarget)
	tspan.End()

	r.meta.UsedTranslation = foreign
	r.meta.TranslatedQuery = tr.TranslatedQuery
	if in.Category == models.CategoryGeneral && tr.Intent != models.CategoryGeneral && intent.IsCategory(tr.Intent) {
		in.Category = tr.Intent
		in.SuggestedLinks = intent.SuggestedLinks(in.Category, in.QueryType)
		in.Hints = intent.ResponseHints(in.Category, in.QueryType)
	}

	r.enter(StateSearching)
	if err := ctx.Err(); err != nil {
		r.warn("search", "skipped: "+err.Error())
		sc.SearchQuery = tr.TranslatedQuery
		sc.NoResults = true
		metrics.StageOutcomesTotal.WithLabelValues("search", "skipped").Inc()
		metrics.StageOutcomesTotal.WithLabelValues("scrape", "skipped").Inc()
		return in
	}
	sctx, sspan := tracer.Start(ctx, "assist.search")
	resp := a.search.Search(sctx, tr.TranslatedQuery)
	sspan.End()

	sc.SearchQuery = tr.TranslatedQuery
	r.meta.SearchStrategy = resp.Strategy
	if !resp.Success {
		r.warn("search", resp.Error)
	}
	if len(resp.Results) == 0 {
		sc.NoResults = true
		metrics.StageOutcomesTotal.WithLabelValues("scrape", "skipped").Inc()
		return in
	}

	sc.Results = rank.Results(resp.Results, tr.TranslatedQuery, rank.Options{
		Category:  in.Category,
		QueryType: in.QueryType,
		UserQuery: text,
	})
	sc.Links = rank.Links(resp.Results, tr.TranslatedQuery, text, in.Category)
	r.meta.UsedDiscoveredLinks = len(sc.Links) > 0
	r.meta.EnhancedResultCount = len(sc.Links)

	target := ""
	if foreign || shouldScrape(text, in.Category) {
		target = scrapeTarget(text, in.Category, sc.Results, sc.Links)
	}
	if target == "" {
		metrics.StageOutcomesTotal.WithLabelValues("scrape", "skipped").Inc()
		return in
	}
	if err := ctx.Err(); err != nil {
		r.warn("scrape", "skipped: "+err.Error())
		metrics.StageOutcomesTotal.WithLabelValues("scrape", "skipped").Inc()
		return in
	}

	r.enter(StateScraping)
	pctx, pspan := tracer.Start(ctx, "assist.scrape")
	pspan.SetAttributes(attribute.String("url", target))
	page := a.scraper.Scrape(pctx, target)
	pspan.End()

	if !page.Success {
		metrics.StageOutcomesTotal.WithLabelValues("scrape", "failed").Inc()
		r.warn("scrape", page.Error)
		return in
	}
	metrics.StageOutcomesTotal.WithLabelValues("scrape", "ok").Inc()
	sc.Page = &page
	r.meta.UsedScraping = true
	r.meta.ScrapedURL = page.URL
	return in
}

// scrapeTarget picks the page to scrape: a strong discovered link, else a
// strong search hit, else the category's information page for listing
// questions. "" means nothing is worth scraping.
func scrapeTarget(text, category string, ranked, links []models.SearchResult) string {
	switch {
	case len(links) > 0 && links[0].RelevanceScore >= rank.ScrapeThreshold:
		return links[0].Link
	case len(ranked) > 0 && ranked[0].RelevanceScore > minScrapeScore:
		return ranked[0].Link
	case rank.IsListing(text):
		return intent.InfoURL(category)
	}
	return ""
}
