package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timetable_tracker_bot/internal/app"
	"timetable_tracker_bot/internal/infra/config"
	idb "timetable_tracker_bot/internal/infra/database"
	"timetable_tracker_bot/internal/infra/logger"
	"timetable_tracker_bot/internal/infra/scheduler"
	"timetable_tracker_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Timetable Tracker Bot starting...")

	mainLogger := log.New(os.Stdout, "MAIN: ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	appLogger := logger.Get().WithField("app", "timetable_tracker_bot")
	mainLogger.Printf("INFO: Configuration loaded. LogLevel: %s, Environment: %s, ReminderLead: %dm", cfg.LogLevel, cfg.Environment, cfg.ReminderLeadMinutes)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Println("INFO: Database connection established successfully.")

	// Initialize Repositories
	slotRepo := idb.NewPostgresSlotRepository(db)
	logRepo := idb.NewPostgresLogRepository(db)
	overrideRepo := idb.NewPostgresOverrideRepository(db)
	accountRepo := idb.NewPostgresAccountRepository(db)
	mainLogger.Println("INFO: Repositories initialized.")

	// Initialize PlannerService
	plannerService := app.NewPlannerService(slotRepo, logRepo, overrideRepo, accountRepo, appLogger.WithField("service", "planner"))
	mainLogger.Println("INFO: Planner service initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			log.Printf("ERROR (telebot): %v", err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				log.Printf("ERROR (telebot context): Message: %s, Sender: %d, Chat: %d", c.Text(), c.Sender().ID, c.Chat().ID)
			}
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize ReminderService and its scheduler
	reminderService := app.NewReminderService(plannerService, accountRepo, telegramClient, appLogger.WithField("service", "reminder"), cfg.ReminderLeadMinutes)
	schedulerLogger := log.New(os.Stdout, "SCHEDULER: ", log.LstdFlags|log.Lshortfile)
	reminderScheduler := scheduler.NewReminderScheduler(reminderService, schedulerLogger, cfg.CronSpecReminders)
	reminderScheduler.Start()

	// Change feed: re-render today's schedule for watching users after
	// each committed write.
	watchRegistry := telegram.NewWatchRegistry()
	changeListener, err := idb.NewChangeListener(cfg.DatabaseURL, appLogger.WithField("service", "change_listener"))
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not start database change listener: %v", err)
	}
	changeListener.Subscribe(telegram.NewWatchRefresher(plannerService, telegramClient, watchRegistry, appLogger.WithField("service", "watch_refresher")))
	mainLogger.Println("INFO: Database change listener started.")

	// Register Handlers
	ctx := context.Background()
	telegram.RegisterBotCommands(ctx, bot, plannerService, appLogger)
	telegram.RegisterPlannerHandlers(ctx, bot, plannerService, watchRegistry, appLogger)
	mainLogger.Println("INFO: Command and callback handlers registered.")

	mainLogger.Println("INFO: Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Println("INFO: Shutting down application...")
	reminderScheduler.Stop()
	if err := changeListener.Close(); err != nil {
		mainLogger.Printf("WARN: Error closing change listener: %v", err)
	}
	// db.Close() is handled by defer
	mainLogger.Println("INFO: Application shut down gracefully.")
}
