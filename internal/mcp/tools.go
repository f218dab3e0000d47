package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

type FindEntityInput struct {
	ID   string `json:"id,omitempty" jsonschema:"entity id"`
	Name string `json:"name,omitempty" jsonschema:"entity name when the id is unknown"`
}

type SearchEntitiesInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	Type  string `json:"type,omitempty" jsonschema:"restrict to one entity type"`
	Tag   string `json:"tag,omitempty" jsonschema:"restrict to one tag"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type GetRelatedInput struct {
	ID string `json:"id" jsonschema:"entity id to traverse from"`
}

type CreateEventInput struct {
	Name             string   `json:"name" jsonschema:"event name"`
	Description      string   `json:"description,omitempty" jsonschema:"what happens"`
	Scope            string   `json:"scope,omitempty" jsonschema:"story, character, or world"`
	StoryDay         int      `json:"story_day,omitempty" jsonschema:"approximate day in the story"`
	StoryID          string   `json:"story_id,omitempty" jsonschema:"story the event belongs to"`
	ChapterID        string   `json:"chapter_id,omitempty" jsonschema:"chapter the event belongs to"`
	InvolvedEntities []string `json:"involved_entities,omitempty" jsonschema:"entity ids involved in the event"`
	Importance       int      `json:"importance,omitempty" jsonschema:"plot importance from 1 to 5"`
}

type GetTimelineInput struct {
	EntityID string `json:"entity_id" jsonschema:"entity whose events to list"`
}

type CheckConsistencyInput struct{}

type EntityOutput struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Tags     []string       `json:"tags"`
	Metadata map[string]any `json:"metadata"`
}

type FindEntityOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type SearchResultOutput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type SearchEntitiesOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type RefOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type GetRelatedOutput struct {
	Related []RefOutput `json:"related"`
}

type CreateEventOutput struct {
	EventID string `json:"event_id"`
}

type EventOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
	StoryDay    int    `json:"story_day,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Importance  int    `json:"importance,omitempty"`
}

type GetTimelineOutput struct {
	Events []EventOutput `json:"events"`
}

type IssueOutput struct {
	Level       string `json:"level"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
}

type CheckConsistencyOutput struct {
	IsValid     bool          `json:"is_valid"`
	Issues      []IssueOutput `json:"issues"`
	Suggestions []string      `json:"suggestions"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "find_entity",
		Description: "Look up an entity by id or name",
	}, s.handleFindEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_entities",
		Description: "Relevance-ranked search over names, tags, and metadata",
	}, s.handleSearchEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_related",
		Description: "List entities one relationship hop away",
	}, s.handleGetRelated)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_event",
		Description: "Record a story event on the timeline",
	}, s.handleCreateEvent)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_timeline",
		Description: "List the events involving an entity in story order",
	}, s.handleGetTimeline)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "check_consistency",
		Description: "Run continuity checks over the graph, timeline, and world states",
	}, s.handleCheckConsistency)
}

func (s *Server) handleFindEntity(ctx context.Context, req *sdk.CallToolRequest, input FindEntityInput) (*sdk.CallToolResult, FindEntityOutput, error) {
	if input.ID == "" && input.Name == "" {
		return nil, FindEntityOutput{}, fmt.Errorf("id or name is required")
	}

	var out FindEntityOutput
	if input.ID != "" {
		if entity := s.system.FindEntity(input.ID); entity != nil {
			out.Entities = append(out.Entities, entityOutput(entity))
		}
		return nil, out, nil
	}
	for _, entity := range s.system.FindEntitiesByName(input.Name) {
		out.Entities = append(out.Entities, entityOutput(entity))
	}
	return nil, out, nil
}

func (s *Server) handleSearchEntities(ctx context.Context, req *sdk.CallToolRequest, input SearchEntitiesInput) (*sdk.CallToolResult, SearchEntitiesOutput, error) {
	opts := registry.SearchOptions{
		Query: input.Query,
		Tag:   input.Tag,
		Limit: input.Limit,
	}
	if input.Type != "" {
		opts.Types = []registry.EntityType{registry.EntityType(input.Type)}
	}

	var out SearchEntitiesOutput
	for _, result := range s.system.Registry.Search(opts) {
		out.Results = append(out.Results, SearchResultOutput{
			ID:    result.Entity.ID,
			Name:  result.Entity.Name,
			Type:  string(result.Entity.Type),
			Score: result.Score,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetRelated(ctx context.Context, req *sdk.CallToolRequest, input GetRelatedInput) (*sdk.CallToolResult, GetRelatedOutput, error) {
	if input.ID == "" {
		return nil, GetRelatedOutput{}, fmt.Errorf("id is required")
	}

	var out GetRelatedOutput
	for _, ref := range s.system.FindRelatedEntities(input.ID) {
		out.Related = append(out.Related, RefOutput{ID: ref.ID, Name: ref.Name, Type: string(ref.Type)})
	}
	return nil, out, nil
}

func (s *Server) handleCreateEvent(ctx context.Context, req *sdk.CallToolRequest, input CreateEventInput) (*sdk.CallToolResult, CreateEventOutput, error) {
	if input.Name == "" {
		return nil, CreateEventOutput{}, fmt.Errorf("name is required")
	}

	event := timeline.Event{
		Name:        input.Name,
		Description: input.Description,
		Scope:       timeline.Scope(input.Scope),
		Time:        timeline.TimePoint{IsApproximate: true, StoryDay: input.StoryDay},
		PlotImpact:  timeline.PlotImpact{Importance: input.Importance},
	}
	if input.StoryID != "" || input.ChapterID != "" {
		event.StoryContext = &timeline.StoryContext{StoryID: input.StoryID, ChapterID: input.ChapterID}
	}
	for _, id := range input.InvolvedEntities {
		ref := registry.Ref{ID: id}
		if entity := s.system.FindEntity(id); entity != nil {
			ref = entity.Ref()
		}
		event.InvolvedEntities = append(event.InvolvedEntities, ref)
	}

	id := s.system.CreateStoryEvent(event)
	if s.store != nil {
		if stored := s.system.Timeline.Event(id); stored != nil {
			if err := s.store.SaveEvent(ctx, *stored); err != nil {
				return nil, CreateEventOutput{}, fmt.Errorf("saving event: %w", err)
			}
		}
	}
	return nil, CreateEventOutput{EventID: id}, nil
}

func (s *Server) handleGetTimeline(ctx context.Context, req *sdk.CallToolRequest, input GetTimelineInput) (*sdk.CallToolResult, GetTimelineOutput, error) {
	if input.EntityID == "" {
		return nil, GetTimelineOutput{}, fmt.Errorf("entity_id is required")
	}

	var out GetTimelineOutput
	for _, event := range s.system.EventsByEntity(input.EntityID) {
		eventOut := EventOutput{
			ID:          event.ID,
			Name:        event.Name,
			Description: event.Description,
			Scope:       string(event.Scope),
			Importance:  event.PlotImpact.Importance,
		}
		if event.Time.IsApproximate {
			eventOut.StoryDay = event.Time.StoryDay
		} else if !event.Time.Timestamp.IsZero() {
			eventOut.Timestamp = event.Time.Timestamp.Format(time.RFC3339)
		}
		out.Events = append(out.Events, eventOut)
	}
	return nil, out, nil
}

func (s *Server) handleCheckConsistency(ctx context.Context, req *sdk.CallToolRequest, input CheckConsistencyInput) (*sdk.CallToolResult, CheckConsistencyOutput, error) {
	report := s.system.ValidateConsistency()

	out := CheckConsistencyOutput{
		IsValid:     report.IsValid,
		Suggestions: report.Suggestions,
	}
	for _, issue := range report.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Level:       string(issue.Type),
			Category:    issue.Category,
			Description: issue.Description,
			Severity:    issue.Severity,
		})
	}
	return nil, out, nil
}

func entityOutput(e *registry.Entity) EntityOutput {
	metadata := map[string]any{}
	for key, value := range e.Metadata {
		metadata[key] = value
	}
	return EntityOutput{
		ID:       e.ID,
		Name:     e.Name,
		Type:     string(e.Type),
		Tags:     append([]string{}, e.Tags...),
		Metadata: metadata,
	}
}
