package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"meal-rotation-planner/internal/app"
	"meal-rotation-planner/internal/config"
	"meal-rotation-planner/internal/metrics"
	"meal-rotation-planner/internal/planner"
	"meal-rotation-planner/internal/recipe"
	"meal-rotation-planner/internal/shopping"
)

// Bot wraps the Telegram API around the planning application.
type Bot struct {
	api          *tgbotapi.BotAPI
	application  *app.App
	metricsStore *metrics.Store
	sessions     *SessionRepository
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, metricsStore *metrics.Store, sessions *SessionRepository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		application:  application,
		metricsStore: metricsStore,
		sessions:     sessions,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Failed to parse update: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	// A pending regeneration confirmation takes over the next message.
	if session, _ := b.sessions.GetActive(ctx, userID, time.Now()); session != nil && session.SessionType == SessionRegenConfirm {
		b.handleRegenReply(ctx, session, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		b.handleClipRequest(ctx, msg)
	case text == "/start", text == "/help":
		b.reply(msg.Chat.ID, helpText)
	case text == "/generate":
		b.handleGenerate(ctx, userID, msg.Chat.ID)
	case text == "/plan":
		b.handleShowPlan(ctx, userID, msg.Chat.ID)
	case strings.HasPrefix(text, "/list"):
		b.handleShoppingList(ctx, userID, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/regen"):
		b.handleRegenRequest(ctx, userID, msg.Chat.ID, text)
	case text == "/recipes":
		b.handleRecipeCount(ctx, msg.Chat.ID)
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, "🤔 I didn't understand that. Send /help for the command list.")
	}
}

const helpText = `🍽 *Meal Rotation Planner*

• /generate — plan the next weeks from your recipe pool
• /plan — show your latest plan
• /list N — shopping list for week N
• /regen N — regenerate week N (asks to confirm)
• /recipes — pool size
• Send a recipe URL to import it`

func (b *Bot) handleGenerate(ctx context.Context, userID string, chatID int64) {
	statusMsg := b.replyAndKeep(chatID, "🧑‍🍳 *Planning...* \n(Scheduling your weeks and building shopping lists)")

	prefs := planner.UserPreferences{
		MaxWeeknightMinutes:     b.cfg.DefaultWeeknightMinutes,
		MaxWeekendMinutes:       b.cfg.DefaultWeekendMinutes,
		Skill:                   planner.SkillLevel(b.cfg.DefaultSkill),
		AvoidConsecutiveComplex: b.cfg.AvoidConsecutiveComplex,
		VarietyWeight:           b.cfg.DefaultVarietyWeight,
	}

	batch, err := b.application.GeneratePlan(ctx, userID, prefs)
	if err != nil {
		b.edit(chatID, statusMsg, formatError("Error generating plan", err))
		return
	}

	lookup, err := b.application.RecipeLookup(ctx)
	if err != nil {
		b.edit(chatID, statusMsg, formatError("Error loading recipes", err))
		return
	}

	b.edit(chatID, statusMsg, formatBatchMarkdown(batch, lookup))
}

func (b *Bot) handleShowPlan(ctx context.Context, userID string, chatID int64) {
	batch, err := b.application.LatestBatch(ctx, userID)
	if err != nil {
		b.reply(chatID, formatError("Error loading plan", err))
		return
	}
	if batch == nil {
		b.reply(chatID, "📭 No plan yet. Send /generate to create one.")
		return
	}

	lookup, err := b.application.RecipeLookup(ctx)
	if err != nil {
		b.reply(chatID, formatError("Error loading recipes", err))
		return
	}
	b.reply(chatID, formatBatchMarkdown(batch, lookup))
}

func (b *Bot) handleShoppingList(ctx context.Context, userID string, chatID int64, text string) {
	batch, err := b.application.LatestBatch(ctx, userID)
	if err != nil || batch == nil {
		b.reply(chatID, "📭 No plan yet. Send /generate to create one.")
		return
	}

	weekIndex := parseWeekArg(text, len(batch.ShoppingLists))
	if weekIndex < 0 {
		b.reply(chatID, fmt.Sprintf("Usage: /list N (1-%d)", len(batch.ShoppingLists)))
		return
	}

	b.reply(chatID, formatShoppingListMarkdown(&batch.ShoppingLists[weekIndex], weekIndex+1))
}

func (b *Bot) handleRegenRequest(ctx context.Context, userID string, chatID int64, text string) {
	batch, err := b.application.LatestBatch(ctx, userID)
	if err != nil || batch == nil {
		b.reply(chatID, "📭 No plan yet. Send /generate to create one.")
		return
	}

	weekIndex := parseWeekArg(text, len(batch.Result.WeekPlans))
	if weekIndex < 0 {
		b.reply(chatID, fmt.Sprintf("Usage: /regen N (1-%d)", len(batch.Result.WeekPlans)))
		return
	}

	// Regeneration discards the old week for good, so ask first.
	_, err = b.sessions.Create(ctx, userID, SessionRegenConfirm, "awaiting_confirmation",
		SessionContextData{BatchID: batch.Result.BatchID, WeekIndex: weekIndex}, 120)
	if err != nil {
		b.reply(chatID, formatError("Error starting regeneration", err))
		return
	}

	weekStart := batch.Result.WeekPlans[weekIndex].WeekStart
	b.reply(chatID, fmt.Sprintf(
		"🔄 Regenerate week %d (starting *%s*)? The current week is discarded and its main courses stay excluded.\nReply *yes* to confirm, anything else to cancel.",
		weekIndex+1, weekStart.Format("2006-01-02")))
}

func (b *Bot) handleRegenReply(ctx context.Context, session *Session, msg *tgbotapi.Message) {
	defer func() {
		if err := b.sessions.Delete(ctx, session.ID); err != nil {
			log.Printf("Warning: failed to delete session %d: %v", session.ID, err)
		}
	}()

	if !strings.EqualFold(strings.TrimSpace(msg.Text), "yes") {
		b.reply(msg.Chat.ID, "👍 Cancelled. Your plan is unchanged.")
		return
	}

	data, err := session.GetContextData()
	if err != nil {
		b.reply(msg.Chat.ID, formatError("Error resuming regeneration", err))
		return
	}

	statusMsg := b.replyAndKeep(msg.Chat.ID, "🧑‍🍳 *Regenerating week...*")
	userID := fmt.Sprintf("%d", msg.From.ID)
	batch, err := b.application.RegenerateWeek(ctx, userID, data.WeekIndex)
	if err != nil {
		b.edit(msg.Chat.ID, statusMsg, formatError("Error regenerating week", err))
		return
	}

	lookup, err := b.application.RecipeLookup(ctx)
	if err != nil {
		b.edit(msg.Chat.ID, statusMsg, formatError("Error loading recipes", err))
		return
	}
	b.edit(msg.Chat.ID, statusMsg, formatWeekMarkdown(&batch.Result.WeekPlans[data.WeekIndex], data.WeekIndex+1, lookup))
}

func (b *Bot) handleClipRequest(ctx context.Context, msg *tgbotapi.Message) {
	statusMsg := b.replyAndKeep(msg.Chat.ID, "✂️ *Importing recipe...*")

	rec, err := b.application.ClipRecipe(ctx, strings.TrimSpace(msg.Text))
	if err != nil {
		b.edit(msg.Chat.ID, statusMsg, formatError("Error importing recipe", err))
		return
	}

	b.edit(msg.Chat.ID, statusMsg, fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Course:* %s\n*Cuisine:* %s",
		rec.Title, rec.Course, rec.Cuisine.String()))
}

func (b *Bot) handleRecipeCount(ctx context.Context, chatID int64) {
	count, err := b.application.RecipeCount(ctx)
	if err != nil {
		b.reply(chatID, formatError("Error counting recipes", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("📚 Your pool has *%d* recipes.", count))
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	daily, err := b.metricsStore.GetDailyGenerations(7)
	if err != nil {
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Generations*\n")
	if len(daily) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range daily {
		sb.WriteString(fmt.Sprintf("• *%s*: %d runs (%d succeeded)\n", d.Date, d.Runs, d.Succeeded))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.reply(chatID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// replyAndKeep sends a status message and returns its ID for later editing.
func (b *Bot) replyAndKeep(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if messageID == 0 {
		b.reply(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

// parseWeekArg reads "/cmd N" and returns the zero-based week index, -1 when
// invalid. A bare command defaults to the first week.
func parseWeekArg(text string, weekCount int) int {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		if weekCount > 0 {
			return 0
		}
		return -1
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > weekCount {
		return -1
	}
	return n - 1
}

func formatError(prefix string, err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *%s:*\n```\n%v\n```", prefix, safeErr)
}

func formatBatchMarkdown(batch *app.Batch, lookup map[string]recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Meal Plan* (%d weeks)\n\n", len(batch.Result.WeekPlans)))
	for i := range batch.Result.WeekPlans {
		sb.WriteString(formatWeekMarkdown(&batch.Result.WeekPlans[i], i+1, lookup))
		sb.WriteString("\n")
	}
	sb.WriteString("Send /list N for a week's shopping list.")
	return sb.String()
}

func formatWeekMarkdown(week *planner.WeekPlan, number int, lookup map[string]recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Week %d* — starting %s\n", number, week.WeekStart.Format("2006-01-02")))

	for _, a := range week.Assignments {
		if a.Course != recipe.CourseMainCourse {
			continue
		}
		line := fmt.Sprintf("*%s*: %s", a.Date.Format("Mon"), titleFor(a.RecipeID, lookup))
		if a.AccompanimentID != "" {
			line += fmt.Sprintf(" + %s", titleFor(a.AccompanimentID, lookup))
		}
		if a.RequiresAdvancePrep {
			line += " ⏳"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func formatShoppingListMarkdown(list *shopping.ShoppingList, number int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Shopping List — Week %d* (%s)\n\n", number, list.WeekStart.Format("2006-01-02")))

	// Group lines by aisle, keeping first-seen order within each.
	byCategory := make(map[shopping.Category][]shopping.Item)
	var categories []shopping.Category
	for _, item := range list.Items {
		if _, seen := byCategory[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("\n_%s_\n", category))
		for _, item := range byCategory[category] {
			if item.Unit != "" {
				sb.WriteString(fmt.Sprintf("• %g %s %s\n", item.Quantity, item.Unit, item.Name))
			} else {
				sb.WriteString(fmt.Sprintf("• %g %s\n", item.Quantity, item.Name))
			}
		}
	}
	return sb.String()
}

func titleFor(id string, lookup map[string]recipe.Recipe) string {
	if rec, ok := lookup[id]; ok {
		return rec.Title
	}
	return id
}
