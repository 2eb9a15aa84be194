package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"eventfinder/models"
)

// discordMessageLimit is Discord's maximum message length
const discordMessageLimit = 2000

// discordSearchTimeout bounds a search started from a Discord message
const discordSearchTimeout = 3 * time.Minute

// DiscordService answers event searches posted in Discord channels
type DiscordService struct {
	session       *discordgo.Session
	finder        *EventFinder
	commandPrefix string
	enabled       bool
	startTime     time.Time
	searchTimeout time.Duration
}

// NewDiscordService creates a new Discord service instance. Without a token
// the service stays disabled.
func NewDiscordService(finder *EventFinder, token, commandPrefix string) *DiscordService {
	if commandPrefix == "" {
		commandPrefix = "!events "
	}

	service := &DiscordService{
		finder:        finder,
		commandPrefix: commandPrefix,
		enabled:       false,
		startTime:     time.Now(),
		searchTimeout: discordSearchTimeout,
	}

	if token == "" {
		log.Printf("Discord bot disabled: bot token not set")
		return service
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Printf("Error creating Discord session: %v", err)
		return service
	}

	service.session = session

	session.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		log.Printf("Discord bot is online as %s in %d servers", event.User.Username, len(event.Guilds))
	})
	session.AddHandler(service.messageCreate)

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	service.enabled = true
	log.Printf("Discord service initialized with prefix: %s", commandPrefix)

	return service
}

// Start opens the Discord gateway connection
func (d *DiscordService) Start() error {
	if !d.enabled {
		return fmt.Errorf("discord service not enabled (missing bot token)")
	}

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}

	log.Printf("Discord bot started. Use '%s<interest> | <location>' in Discord", d.commandPrefix)
	return nil
}

// Stop closes the Discord bot connection
func (d *DiscordService) Stop() error {
	if d.session != nil {
		return d.session.Close()
	}
	return nil
}

func (d *DiscordService) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	req, ok := parseEventsCommand(m.Content, d.commandPrefix)
	if !ok {
		return
	}
	if req.InterestDescription == "" {
		d.sendMessage(s, m.ChannelID, fmt.Sprintf("Usage: `%s<interest> | <location>`", d.commandPrefix))
		return
	}

	s.ChannelTyping(m.ChannelID)

	log.Printf("Discord event search: User %s in channel %s: %q", m.Author.Username, m.ChannelID, req.InterestDescription)

	d.sendMessage(s, m.ChannelID, formatDiscordReply(d.search(req)))
}

// search runs req with the Discord timeout; there is no client request to
// cancel it otherwise.
func (d *DiscordService) search(req models.EventSearchRequest) models.EventSearchResult {
	ctx, cancel := context.WithTimeout(context.Background(), d.searchTimeout)
	defer cancel()
	return d.finder.FindEvents(ctx, req)
}

// parseEventsCommand parses "<prefix><interest> | <location>". ok is false
// when content is not addressed to the bot.
func parseEventsCommand(content, prefix string) (models.EventSearchRequest, bool) {
	if !strings.HasPrefix(content, prefix) {
		return models.EventSearchRequest{}, false
	}

	body := strings.TrimSpace(content[len(prefix):])
	interest, location, _ := strings.Cut(body, "|")

	return models.EventSearchRequest{
		InterestDescription: strings.TrimSpace(interest),
		Location:            strings.TrimSpace(location),
	}, true
}

func formatDiscordReply(result models.EventSearchResult) string {
	if result.Failed() {
		return "Sorry, I couldn't search for events: " + result.ErrorMessage()
	}
	if strings.TrimSpace(result.ResultsText) == "" {
		return "The search finished but returned no text."
	}
	return result.ResultsText
}

// sendMessage sends a message to Discord, splitting it at the length limit
func (d *DiscordService) sendMessage(s *discordgo.Session, channelID, message string) {
	if len(message) <= discordMessageLimit {
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			log.Printf("Error sending Discord message: %v", err)
		}
		return
	}

	chunks := splitMessage(message, discordMessageLimit-100)
	for i, chunk := range chunks {
		if i > 0 {
			chunk = fmt.Sprintf("...continued:\n%s", chunk)
		}
		if i < len(chunks)-1 {
			chunk = chunk + "\n..."
		}

		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			log.Printf("Error sending Discord message chunk: %v", err)
		}

		// Small delay between messages to avoid rate limiting
		time.Sleep(200 * time.Millisecond)
	}
}

// splitMessage splits a message into chunks of at most maxLength bytes,
// preferring line breaks, then spaces. Chunks never end inside a UTF-8
// sequence.
func splitMessage(message string, maxLength int) []string {
	if len(message) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(message) > maxLength {
		splitIndex := maxLength
		if nl := strings.LastIndex(message[:maxLength], "\n"); nl > maxLength/2 {
			splitIndex = nl
		} else if sp := strings.LastIndex(message[:maxLength], " "); sp > maxLength/2 {
			splitIndex = sp
		} else {
			for splitIndex > 0 && !utf8.RuneStart(message[splitIndex]) {
				splitIndex--
			}
			if splitIndex == 0 {
				_, size := utf8.DecodeRuneInString(message)
				splitIndex = size
			}
		}

		chunks = append(chunks, message[:splitIndex])
		message = strings.TrimLeft(message[splitIndex:], " \n")
	}

	if len(message) > 0 {
		chunks = append(chunks, message)
	}

	return chunks
}

// IsEnabled returns whether the Discord service is enabled
func (d *DiscordService) IsEnabled() bool {
	return d.enabled
}

// GetStatus returns the current status of the Discord service
func (d *DiscordService) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"enabled":        d.enabled,
		"command_prefix": d.commandPrefix,
		"uptime":         time.Since(d.startTime).String(),
	}

	switch {
	case d.enabled && d.session != nil && d.session.State != nil && d.session.State.User != nil:
		status["status"] = "connected"
		status["user"] = d.session.State.User.Username
		status["guilds"] = len(d.session.State.Guilds)
	case d.enabled:
		status["status"] = "initialized_not_started"
	default:
		status["status"] = "disabled"
	}

	return status
}
