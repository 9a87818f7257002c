// internal/ai/prompt.go
package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"contest-console/internal/common/logger"
	"contest-console/internal/knowledge"
	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/scoring"
)

const defaultPersona = `You are the operations assistant for a contest and voting platform.
You help operators understand events, participants, entries, divisions and standings.
You may explain how to run guided commands (add/update/delete for events, participants, entries and divisions) but you never perform mutations yourself.
Answer from the facts below; if something is not covered, say so instead of guessing.`

// listingThreshold bounds roster dumps in the current-event block.
const listingThreshold = 30

// CommandInfo describes one enabled wizard command for the prompt's
// command list.
type CommandInfo struct {
	Name        string
	Category    string
	Description string
}

// CommandSource supplies the enabled command set. The wizard registry
// implements it.
type CommandSource interface {
	EnabledCommands() []CommandInfo
}

// PromptAssembler builds the system prompt for one chat turn from the
// persona, the command list, the knowledge corpus and a live snapshot
// of domain data. Section order is load-bearing: later sections narrow
// and override earlier, more general ones.
type PromptAssembler struct {
	commands     CommandSource
	knowledge    *knowledge.Service
	events       repository.EventRepository
	divisions    repository.DivisionRepository
	participants repository.ParticipantRepository
	entries      repository.EntryRepository
	votes        repository.VoteRepository
	scoring      scoring.Service
	logger       logger.Logger
	persona      string
}

func NewPromptAssembler(
	commands CommandSource,
	know *knowledge.Service,
	events repository.EventRepository,
	divisions repository.DivisionRepository,
	participants repository.ParticipantRepository,
	entries repository.EntryRepository,
	votes repository.VoteRepository,
	scoringSvc scoring.Service,
	log logger.Logger,
	personaOverride string,
) *PromptAssembler {
	persona := strings.TrimSpace(personaOverride)
	if persona == "" {
		persona = defaultPersona
	}
	return &PromptAssembler{
		commands:     commands,
		knowledge:    know,
		events:       events,
		divisions:    divisions,
		participants: participants,
		entries:      entries,
		votes:        votes,
		scoring:      scoringSvc,
		logger:       log,
		persona:      persona,
	}
}

// Assemble concatenates the prompt sections for the given user message
// and optional current event. Snapshot read failures degrade to omitted
// sections rather than failing the chat turn.
func (p *PromptAssembler) Assemble(ctx context.Context, message string, scopeEventID *int64) string {
	var b strings.Builder

	b.WriteString(p.persona)
	b.WriteString("\n\n")

	p.writeCommandList(&b)
	p.writeKnowledge(&b, ctx, message)
	p.writeGlobalSnapshot(&b, ctx)
	if scopeEventID != nil {
		p.writeCurrentEvent(&b, ctx, *scopeEventID)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (p *PromptAssembler) writeCommandList(b *strings.Builder) {
	if p.commands == nil {
		return
	}
	commands := p.commands.EnabledCommands()
	if len(commands) == 0 {
		return
	}

	byCategory := make(map[string][]CommandInfo)
	for _, c := range commands {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	b.WriteString("## Available commands\n")
	for _, cat := range categories {
		fmt.Fprintf(b, "%s:\n", cat)
		for _, c := range byCategory[cat] {
			fmt.Fprintf(b, "- %s: %s\n", c.Name, c.Description)
		}
	}
	b.WriteString("\n")
}

func (p *PromptAssembler) writeKnowledge(b *strings.Builder, ctx context.Context, message string) {
	if p.knowledge == nil {
		return
	}
	docs := p.knowledge.Relevant(ctx, message)
	if len(docs) == 0 {
		return
	}
	b.WriteString("## Knowledge\n")
	for _, doc := range docs {
		fmt.Fprintf(b, "### %s\n%s\n", doc.Title, strings.TrimSpace(doc.Body))
	}
	b.WriteString("\n")
}

func (p *PromptAssembler) writeGlobalSnapshot(b *strings.Builder, ctx context.Context) {
	b.WriteString("## Platform snapshot\n")

	if templates, err := p.events.ListTemplates(ctx); err == nil && len(templates) > 0 {
		b.WriteString("Event templates:\n")
		for _, t := range templates {
			fmt.Fprintf(b, "- %s (divisions: %s; entry types: %s)\n",
				t.Name, strings.Join(t.DivisionTypes, ", "), strings.Join(t.EntryTypes, ", "))
		}
	} else if err != nil {
		p.snapshotWarn("templates", err)
	}

	if schemes, err := p.events.ListVotingSchemes(ctx); err == nil && len(schemes) > 0 {
		b.WriteString("Voting schemes:\n")
		for _, s := range schemes {
			fmt.Fprintf(b, "- %s: points %s\n", s.Name, joinInts(s.Points))
		}
	} else if err != nil {
		p.snapshotWarn("voting schemes", err)
	}

	events, err := p.events.List(ctx)
	if err != nil {
		p.snapshotWarn("events", err)
		b.WriteString("\n")
		return
	}

	var active, draft []*models.Event
	for _, e := range events {
		switch e.Status {
		case models.EventStatusActive:
			active = append(active, e)
		case models.EventStatusDraft:
			draft = append(draft, e)
		}
	}
	writeEventGroup(b, "Active events", active)
	writeEventGroup(b, "Draft events", draft)

	for _, e := range events {
		count, err := p.votes.CountByEvent(ctx, e.ID)
		if err != nil || count == 0 {
			continue
		}
		top, err := p.scoring.GetLeaderboard(ctx, e.ID, nil, 3)
		if err != nil || len(top) == 0 {
			continue
		}
		fmt.Fprintf(b, "Top standings for %s:\n", e.Name)
		writeStandings(b, top)
	}
	b.WriteString("\n")
}

func (p *PromptAssembler) writeCurrentEvent(b *strings.Builder, ctx context.Context, eventID int64) {
	event, err := p.events.FindByID(ctx, eventID)
	if err != nil {
		p.snapshotWarn("current event", err)
		return
	}

	fmt.Fprintf(b, "## Current event: %s\n", event.Name)
	fmt.Fprintf(b, "Status: %s\n", event.Status)
	if event.Location != "" {
		fmt.Fprintf(b, "Location: %s\n", event.Location)
	}
	if event.EventDate != nil {
		fmt.Fprintf(b, "Date: %s\n", event.EventDate.Format("2006-01-02"))
	}

	divisions, _ := p.divisions.ListByEvent(ctx, eventID)
	participants, _ := p.participants.ListByEvent(ctx, eventID)
	entries, _ := p.entries.ListByEvent(ctx, eventID)
	voteCount, _ := p.votes.CountByEvent(ctx, eventID)
	fmt.Fprintf(b, "Statistics: %d divisions, %d participants, %d entries, %d votes\n",
		len(divisions), len(participants), len(entries), voteCount)

	if len(divisions) > 0 {
		b.WriteString("Divisions:\n")
		for _, d := range divisions {
			fmt.Fprintf(b, "- [%s] %s (%s)\n", d.Code, d.Name, d.DivisionType)
		}
	}

	if n := len(participants); n > 0 {
		if n > listingThreshold {
			fmt.Fprintf(b, "Participants: %d registered (too many to list)\n", n)
		} else {
			b.WriteString("Participants:\n")
			for _, part := range participants {
				fmt.Fprintf(b, "- %s\n", part.Name)
			}
		}
	}

	if n := len(entries); n > 0 {
		if n > listingThreshold {
			fmt.Fprintf(b, "Entries: %d registered (too many to list)\n", n)
		} else {
			b.WriteString("Entries:\n")
			for _, e := range entries {
				fmt.Fprintf(b, "- #%d %s (%s)\n", e.Number, e.Name, e.EntryType)
			}
		}
	}

	if voteCount > 0 {
		top, err := p.scoring.GetLeaderboard(ctx, eventID, nil, 5)
		if err == nil && len(top) > 0 {
			b.WriteString("Current standings:\n")
			writeStandings(b, top)
		}
	}
	b.WriteString("\n")
}

func (p *PromptAssembler) snapshotWarn(section string, err error) {
	p.logger.Warn("prompt snapshot section unavailable", map[string]interface{}{
		"section": section,
		"error":   err.Error(),
	})
}

func writeEventGroup(b *strings.Builder, heading string, events []*models.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, e := range events {
		line := fmt.Sprintf("- %s", e.Name)
		if e.Location != "" {
			line += " at " + e.Location
		}
		if e.EventDate != nil {
			line += " on " + e.EventDate.Format("2006-01-02")
		}
		b.WriteString(line + "\n")
	}
}

func writeStandings(b *strings.Builder, rows []scoring.ResultRow) {
	for i, r := range rows {
		fmt.Fprintf(b, "%d. %s by %s (%s) with %d points from %d votes\n",
			i+1, r.EntryName, r.ParticipantName, r.DivisionName, r.TotalPoints, r.VoteCount)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, "/")
}
