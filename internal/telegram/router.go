package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/cmds"
	"vpnctl-bot/internal/telegram/flows/createuser"
	"vpnctl-bot/internal/telegram/flows/deleteuser"
	"vpnctl-bot/internal/telegram/flows/extenduser"
	"vpnctl-bot/internal/telegram/messages"
	"vpnctl-bot/internal/telegram/states"
)

type botApi interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type stateManager interface {
	Get(chatID int64) (states.Pending, bool)
	Clear(chatID int64)
}

type accessChecker interface {
	IsOperator(telegramID int64) bool
}

type (
	commandFunc  func(ctx context.Context, chatID int64, args string) error
	callbackFunc func(ctx context.Context, query *tgbotapi.CallbackQuery) error
	textFunc     func(ctx context.Context, update *tgbotapi.Update, pending states.Pending) error
)

type callbackRoute struct {
	prefix string
	fn     callbackFunc
}

// Router is the single dispatch point: the authorization gate runs once here,
// then commands and callbacks resolve through tables instead of per-handler
// checks.
type Router struct {
	bot          botApi
	stateManager stateManager
	access       accessChecker
	logger       *slog.Logger

	commands  map[string]commandFunc
	callbacks []callbackRoute
	textBy    map[states.State]textFunc

	// Events from the same caller must not interleave: a pending action is
	// read in Route and cleared later in the flow handler, so two concurrent
	// events could both consume it.
	locksMu     sync.Mutex
	callerLocks map[int64]*sync.Mutex
}

func NewRouter(
	bot botApi,
	sm stateManager,
	access accessChecker,
	createHandler *createuser.Handler,
	extendHandler *extenduser.Handler,
	deleteHandler *deleteuser.Handler,
	statusCommand *cmds.StatusCommand,
	infoCommand *cmds.InfoCommand,
	trafficCommand *cmds.TrafficCommand,
	listCommand *cmds.ListCommand,
	logger *slog.Logger,
) *Router {
	r := &Router{
		bot:          bot,
		stateManager: sm,
		access:       access,
		logger:       logger,
		callerLocks:  make(map[int64]*sync.Mutex),
	}

	r.commands = map[string]commandFunc{
		"start": func(_ context.Context, chatID int64, _ string) error {
			return r.sendMarkdown(chatID, messages.Welcome)
		},
		"help": func(_ context.Context, chatID int64, _ string) error {
			return r.sendMarkdown(chatID, messages.Help)
		},
		"status": func(ctx context.Context, chatID int64, _ string) error {
			return statusCommand.Execute(ctx, chatID)
		},
		"info": func(ctx context.Context, chatID int64, _ string) error {
			return infoCommand.Execute(ctx, chatID)
		},
		"create": func(_ context.Context, chatID int64, _ string) error {
			return createHandler.Start(chatID)
		},
		"list": func(ctx context.Context, chatID int64, _ string) error {
			return listCommand.Execute(ctx, chatID)
		},
		"extend": func(_ context.Context, chatID int64, _ string) error {
			return extendHandler.Start(chatID)
		},
		"delete": func(_ context.Context, chatID int64, _ string) error {
			return deleteHandler.Start(chatID)
		},
		"traffic": func(ctx context.Context, chatID int64, args string) error {
			return trafficCommand.Execute(ctx, chatID, args)
		},
	}

	r.callbacks = []callbackRoute{
		{prefix: createuser.CallbackPrefix, fn: func(_ context.Context, q *tgbotapi.CallbackQuery) error {
			return createHandler.HandleCallback(q)
		}},
		{prefix: extenduser.CallbackPrefix, fn: func(_ context.Context, q *tgbotapi.CallbackQuery) error {
			return extendHandler.HandleCallback(q)
		}},
		{prefix: deleteuser.CallbackPrefix, fn: func(_ context.Context, q *tgbotapi.CallbackQuery) error {
			return deleteHandler.HandleCallback(q)
		}},
		{prefix: cmds.CallbackPrefix, fn: listCommand.HandleCallback},
	}

	r.textBy = map[states.State]textFunc{
		states.CreateUserWaitParams: createHandler.HandleText,
		states.ExtendUserWaitParams: extendHandler.HandleText,
		states.DeleteUserWaitName:   deleteHandler.HandleText,
	}

	return r
}

// Route handles one incoming update. Errors stay inside the event's handler:
// they are reported to the operator by the handler itself and logged here.
func (r *Router) Route(ctx context.Context, update *tgbotapi.Update) error {
	telegramID := extractUserID(update)
	if telegramID == 0 {
		return nil
	}

	if !r.access.IsOperator(telegramID) {
		return r.sendAccessDenied(extractChatID(update))
	}

	// Serialize per caller; events from different callers still run
	// concurrently.
	lock := r.callerLock(telegramID)
	lock.Lock()
	defer lock.Unlock()

	// Commands cancel whatever flow was in progress.
	if update.Message != nil && update.Message.IsCommand() {
		r.stateManager.Clear(telegramID)
		return r.handleCommand(ctx, update)
	}

	if update.CallbackQuery != nil {
		data := update.CallbackQuery.Data
		for _, route := range r.callbacks {
			if strings.HasPrefix(data, route.prefix) {
				return route.fn(ctx, update.CallbackQuery)
			}
		}
		r.logger.Warn("unroutable callback", slog.String("data", data))
		return nil
	}

	// Free text is only meaningful while the caller is mid-flow.
	if update.Message != nil && update.Message.Text != "" {
		pending, ok := r.stateManager.Get(telegramID)
		if !ok {
			return r.sendMarkdown(update.Message.Chat.ID, messages.Help)
		}
		if fn, ok := r.textBy[pending.State]; ok {
			return fn(ctx, update, pending)
		}
		r.logger.Warn("pending action with unroutable state",
			slog.Int64("chat_id", telegramID),
			slog.String("state", string(pending.State)))
		r.stateManager.Clear(telegramID)
		return r.sendMarkdown(update.Message.Chat.ID, messages.Help)
	}

	return nil
}

func (r *Router) callerLock(telegramID int64) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.callerLocks[telegramID]
	if !ok {
		lock = &sync.Mutex{}
		r.callerLocks[telegramID] = lock
	}
	return lock
}

func (r *Router) handleCommand(ctx context.Context, update *tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	fn, ok := r.commands[update.Message.Command()]
	if !ok {
		return r.sendMarkdown(chatID, messages.Help)
	}
	return fn(ctx, chatID, update.Message.CommandArguments())
}

// SetupBotCommands registers the command menu with Telegram.
func (r *Router) SetupBotCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Main menu"},
		{Command: "help", Description: "Show all commands"},
		{Command: "status", Description: "Check service status"},
		{Command: "info", Description: "Get server information"},
		{Command: "create", Description: "Create VPN user"},
		{Command: "list", Description: "List users"},
		{Command: "extend", Description: "Extend user"},
		{Command: "delete", Description: "Delete user"},
		{Command: "traffic", Description: "Get user traffic"},
	}

	setCommandsConfig := tgbotapi.NewSetMyCommands(commands...)
	_, err := r.bot.Request(setCommandsConfig)
	return err
}

func (r *Router) sendMarkdown(chatID int64, text string) error {
	if chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := r.bot.Send(msg)
	return err
}

func (r *Router) sendAccessDenied(chatID int64) error {
	if chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, messages.AccessDenied)
	_, err := r.bot.Send(msg)
	return err
}

func extractUserID(update *tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID
	}
	return 0
}

func extractChatID(update *tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
