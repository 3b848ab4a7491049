// Package dispatcher routes incoming chat lines to game operations
// through a single command table and renders results and errors back
// into outbound chat messages.
package dispatcher

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/notifier"
	"github.com/jianghu-rpg/jianghu-api/internal/orchestrators/game"
)

// Message is one incoming chat line
type Message struct {
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	ChatID    int64  `json:"chat_id"`
	ChatTitle string `json:"chat_title"`
	Text      string `json:"text"`
}

// reply is one outbound chat message produced by a handler
type reply struct {
	chatID int64
	text   string
}

type handler func(ctx context.Context, msg Message, arg string) ([]reply, error)

// Config holds the dispatcher's dependencies
type Config struct {
	Service game.Service
	Sender  notifier.Sender
	Logger  *zap.Logger
	// Operator receives panic and internal-error reports; optional
	Operator *notifier.Operator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Sender == nil {
		vb.RequiredField("Sender")
	}
	return vb.Build()
}

// Dispatcher routes messages to the game service
type Dispatcher struct {
	service  game.Service
	sender   notifier.Sender
	logger   *zap.Logger
	operator *notifier.Operator
	table    map[string]handler
}

// New creates a dispatcher with the full command table registered
func New(cfg *Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		service:  cfg.Service,
		sender:   cfg.Sender,
		logger:   logger,
		operator: cfg.Operator,
	}
	d.table = map[string]handler{
		"/start":      d.handleStart,
		"/me":         d.handleProfile,
		"/cultivate":  d.handleCultivate,
		"/daily":      d.handleDaily,
		"/fight":      d.handleFight,
		"/use":        d.handleUseSkill,
		"/myskills":   d.handleMySkills,
		"/pk":         d.handlePK,
		"/createclan": d.handleCreateClan,
		"/joinclan":   d.handleJoinClan,
		"/leaveclan":  d.handleLeaveClan,
		"/clans":      d.handleListClans,
		"/clan_pk":    d.handleClanWar,
		"/clanwar":    d.handleClanWar,
		"/learn":      d.handleLearn,
		"/admin":      d.handleAdmin,
		"/help":       d.handleHelp,
	}
	return d, nil
}

// Handle routes one incoming message. It never panics: a handler
// fault is reported to the operator and turned into an apology, and
// every error is rendered as a chat reply rather than propagated.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked",
				zap.Any("panic", r),
				zap.String("text", msg.Text),
				zap.Int64("user_id", msg.UserID))
			if d.operator != nil {
				d.operator.Report(ctx, "处理消息时发生严重错误: %v", r)
			}
			d.send(ctx, msg.ChatID, "江湖突发变故，此事暂且作罢。")
		}
	}()

	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		d.handleChat(ctx, msg, text)
		return
	}

	cmd, arg := splitCommand(text)
	h, ok := d.table[cmd]
	if !ok {
		return
	}
	replies, err := h(ctx, msg, arg)
	if err != nil {
		d.send(ctx, msg.ChatID, d.renderError(ctx, msg, err))
		return
	}
	for _, r := range replies {
		d.send(ctx, r.chatID, r.text)
	}
}

// splitCommand separates the leading slash token from its argument.
// A bot mention suffix on the command (/pk@somebot) is stripped.
func splitCommand(text string) (cmd, arg string) {
	cmd, arg, _ = strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return cmd, strings.TrimSpace(arg)
}

// renderError converts an operation error into a player-facing line.
// Expected game rejections carry their own message; anything else is
// logged, reported, and replaced with a generic apology.
func (d *Dispatcher) renderError(ctx context.Context, msg Message, err error) string {
	if errors.IsUserFacing(err) {
		return errors.GetMessage(err)
	}
	d.logger.Error("command failed",
		zap.Error(err),
		zap.String("text", msg.Text),
		zap.Int64("user_id", msg.UserID))
	if d.operator != nil {
		d.operator.Report(ctx, "命令执行失败: %v", err)
	}
	return "江湖风波未平，此事暂且作罢。"
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	if err := d.sender.Send(ctx, chatID, text); err != nil {
		d.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) actor(msg Message) game.Actor {
	return game.Actor{
		UserID:    msg.UserID,
		Name:      msg.UserName,
		ChatID:    msg.ChatID,
		ChatTitle: msg.ChatTitle,
	}
}

// handleChat feeds ordinary chatter into passive progression
func (d *Dispatcher) handleChat(ctx context.Context, msg Message, text string) {
	if text == "" || msg.UserID == 0 {
		return
	}
	out, err := d.service.ChatMessage(ctx, &game.ChatMessageInput{Actor: d.actor(msg), Text: text})
	if err != nil {
		d.logger.Warn("chat progression failed", zap.Error(err))
		return
	}
	for _, up := range out.LevelUps {
		d.send(ctx, msg.ChatID, formatLevelUp(up))
	}
}
