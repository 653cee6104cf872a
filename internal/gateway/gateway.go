// Package gateway turns one-shot model calls into typed learning content.
// Every call is made exactly once: failures are returned to the caller, who
// decides whether the user should try again.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/provider"
	"github.com/jeanpaul/learnsimply/internal/schema"
	"github.com/jeanpaul/learnsimply/internal/types"
)

var (
	// ErrGenerationFailed means no usable response was produced.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrSchemaMismatch means a response arrived but did not have the
	// declared shape. It also matches ErrGenerationFailed.
	ErrSchemaMismatch = fmt.Errorf("%w: response did not match schema", ErrGenerationFailed)
)

const (
	tempRoadmap = 0.5
	tempDetail  = 0.6
	tempQuote   = 0.9
	tempQuiz    = 0.7
	tempArticle = 0.7
)

// Service is the set of operations views depend on.
type Service interface {
	GenerateRoadmap(ctx context.Context, topic string) ([]types.RoadmapItem, error)
	GenerateConceptDetail(ctx context.Context, concept, mainTopic string) (types.DetailedConcept, error)
	WordDefinition(ctx context.Context, word string) (types.WordDefinition, error)
	MotivationalQuote(ctx context.Context) (types.DailyQuote, error)
	GenerateQuiz(ctx context.Context, concept, mainTopic string) ([]types.QuizQuestion, error)
	GenerateArticle(ctx context.Context, query string) (string, error)
}

type Gateway struct {
	gen       provider.Generator
	validator *schema.Validator
	log       *logger.Logger
}

var _ Service = (*Gateway)(nil)

func New(gen provider.Generator, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		gen:       gen,
		validator: schema.NewValidator(),
		log:       log.With("component", "gateway", "provider", gen.Name(), "model", gen.ModelName()),
	}
}

func (g *Gateway) GenerateRoadmap(ctx context.Context, topic string) ([]types.RoadmapItem, error) {
	prompt := fmt.Sprintf(`You are an expert educator. Create a learning roadmap for the topic "%s".
Break the topic down into 5-7 key concepts or sub-topics that a beginner should learn in order.
Provide only the titles of these concepts.`, topic)

	var items []types.RoadmapItem
	if err := g.generateJSON(ctx, "roadmap", prompt, schema.Roadmap, tempRoadmap, &items); err != nil {
		return nil, err
	}
	for i, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			return nil, fmt.Errorf("%w: roadmap: item %d has an empty title", ErrSchemaMismatch, i)
		}
	}
	return items, nil
}

func (g *Gateway) GenerateConceptDetail(ctx context.Context, concept, mainTopic string) (types.DetailedConcept, error) {
	prompt := fmt.Sprintf(`You are an expert educator. For the sub-topic "%s" within the larger topic of "%s", please provide detailed learning resources.

You must generate:
1. "explanation": A clear, conceptual explanation of the sub-topic suitable for a beginner.
2. "synopsis": A concise summary of the key points for the sub-topic, structured for easy memorization. Use markdown formatting like bullet points and bold text to highlight critical information.
3. "youtubeVideos": A list of exactly 3 objects, each with a "title" and a "videoId" for a high-quality educational video on YouTube for this sub-topic.
4. "resourceSearchQueries": A list of exactly 3 specific search queries that would find high-quality articles, blogs, or documentation on Google.

Format the entire response as a single, well-formed JSON object.`, concept, mainTopic)

	var detail types.DetailedConcept
	err := g.generateJSON(ctx, "concept_detail", prompt, schema.DetailedConcept, tempDetail, &detail)
	return detail, err
}

func (g *Gateway) WordDefinition(ctx context.Context, word string) (types.WordDefinition, error) {
	prompt := fmt.Sprintf(`Provide a dictionary entry for the word "%s". I need its phonetic pronunciation, a clear meaning, and two example sentences.`, word)

	var def types.WordDefinition
	err := g.call(ctx, "definition", provider.Request{Prompt: prompt, Schema: schema.Definition}, schema.Definition, &def)
	return def, err
}

func (g *Gateway) MotivationalQuote(ctx context.Context) (types.DailyQuote, error) {
	const prompt = `Provide an inspiring and motivational quote about learning, knowledge, or personal growth.`

	var q types.DailyQuote
	err := g.generateJSON(ctx, "quote", prompt, schema.Quote, tempQuote, &q)
	return q, err
}

func (g *Gateway) GenerateQuiz(ctx context.Context, concept, mainTopic string) ([]types.QuizQuestion, error) {
	prompt := fmt.Sprintf(`You are a quiz master. Create a short quiz with 3-4 multiple-choice questions to test understanding of the concept "%s" within the main topic of "%s".
For each question, provide 4 options and clearly indicate the correct answer.
Ensure the questions are relevant, clear, and test the key points of the concept.`, concept, mainTopic)

	var quiz []types.QuizQuestion
	if err := g.generateJSON(ctx, "quiz", prompt, schema.Quiz, tempQuiz, &quiz); err != nil {
		return nil, err
	}
	if err := checkQuiz(quiz); err != nil {
		g.log.Warn("quiz rejected", "concept", concept, "error", err)
		return nil, fmt.Errorf("%w: quiz: %v", ErrSchemaMismatch, err)
	}
	return quiz, nil
}

func (g *Gateway) GenerateArticle(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert writer and educator.
Write a comprehensive and easy-to-understand article about "%s".
The article should be well-structured with headings, paragraphs, and lists where appropriate.
Use markdown for all formatting. Do not use HTML.
Ensure the content is accurate, informative, and engaging for a learner.
Start with a top-level heading for the article title.`, query)

	raw, err := g.generate(ctx, "article", provider.Request{Prompt: prompt, Temperature: provider.Temperature(tempArticle)})
	if err != nil {
		return "", err
	}
	article := schema.StripCodeFence(raw)
	if article == "" {
		return "", fmt.Errorf("%w: article: empty response", ErrGenerationFailed)
	}
	return article, nil
}

// checkQuiz enforces what the schema cannot: options are non-blank and the
// answer is one of them.
func checkQuiz(quiz []types.QuizQuestion) error {
	for i, q := range quiz {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d has %d options", i+1, len(q.Options))
		}
		found := false
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("question %d: option %d is blank", i+1, j+1)
			}
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct answer %q is not among the options", i+1, q.CorrectAnswer)
		}
	}
	return nil
}

func (g *Gateway) generateJSON(ctx context.Context, op, prompt string, s schema.Schema, temp float64, dst any) error {
	req := provider.Request{Prompt: prompt, Schema: s, Temperature: provider.Temperature(temp)}
	return g.call(ctx, op, req, s, dst)
}

// call performs one request, then strips fences, validates and decodes.
func (g *Gateway) call(ctx context.Context, op string, req provider.Request, s schema.Schema, dst any) error {
	raw, err := g.generate(ctx, op, req)
	if err != nil {
		return err
	}
	doc := schema.StripCodeFence(raw)
	if err := g.validator.Validate(s, doc); err != nil {
		g.log.Warn("response rejected", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, op, err)
	}
	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, op, err)
	}
	return nil
}

func (g *Gateway) generate(ctx context.Context, op string, req provider.Request) (string, error) {
	id := uuid.NewString()
	start := time.Now()
	g.log.Debug("generate", "op", op, "request_id", id)

	raw, err := g.gen.Generate(ctx, req)
	if err != nil {
		g.log.Error("generate failed", "op", op, "request_id", id, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailed, op, err)
	}
	g.log.Debug("generate done", "op", op, "request_id", id, "latency", time.Since(start), "bytes", len(raw))
	return raw, nil
}
