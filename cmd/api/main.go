package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "chama-backend/internal/adapter/http"
	"chama-backend/internal/adapter/middleware"
	"chama-backend/internal/adapter/repository/mysql"
	"chama-backend/internal/config"
	"chama-backend/internal/infrastructure/cache"
	"chama-backend/internal/infrastructure/db"
	"chama-backend/internal/notify"
	"chama-backend/internal/sweeper"
	ucApproval "chama-backend/internal/usecase/approval"
	ucContrib "chama-backend/internal/usecase/contribution"
	ucEligibility "chama-backend/internal/usecase/eligibility"
	ucGroup "chama-backend/internal/usecase/groupadmin"
	ucLoan "chama-backend/internal/usecase/loan"
	ucPenalty "chama-backend/internal/usecase/penalty"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connection failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}

	// repositories
	groups := mysql.NewGroupRepository(gdb)
	contribs := mysql.NewContributionRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	activities := mysql.NewActivityRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	// usecases
	contribUC := ucContrib.NewUsecase(contribs, groups, tx, cfg.EligibilityLookbackMonths)
	eligUC := ucEligibility.NewUsecase(groups, loans, contribUC, cfg.MinContribMonths)
	loanUC := ucLoan.NewUsecase(loans, groups, eligUC, tx, cfg.DefaultLoanTermMonths)
	approvalUC := ucApproval.NewUsecase(tx)
	groupUC := ucGroup.NewUsecase(groups, activities, tx)

	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
		Domain:   cfg.SMTPDomain,
	}, log)
	penaltyUC := ucPenalty.NewUsecase(groups, tx, mailer, log)

	// handlers
	h := httpadp.NewHandler()
	groupH := httpadp.NewGroupHandler(groupUC)
	contribH := httpadp.NewContributionHandler(contribUC)
	eligH := httpadp.NewEligibilityHandler(eligUC)
	loanH := httpadp.NewLoanHandler(loanUC)
	approvalH := httpadp.NewApprovalHandler(approvalUC)
	penaltyH := httpadp.NewPenaltyHandler(penaltyUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	api.POST("/groups", groupH.CreateGroup)
	api.GET("/groups/:group_id", groupH.GetGroup)
	api.GET("/groups/:group_id/activities", groupH.ListActivities)
	api.PUT("/groups/:group_id/next-meeting", groupH.UpdateNextMeeting)

	api.POST("/groups/:group_id/contributions", contribH.RecordContribution)
	api.POST("/contributions/:contribution_id/complete", contribH.CompleteContribution)
	api.POST("/contributions/:contribution_id/fail", contribH.FailContribution)
	api.GET("/groups/:group_id/members/:user_id/contributions/summary", contribH.ContributionSummary)

	api.GET("/groups/:group_id/members/:user_id/eligibility", eligH.GetEligibility)

	api.POST("/groups/:group_id/loans", loanH.RequestLoan)
	api.POST("/groups/:group_id/loans/simulate", loanH.SimulateLoan)
	api.GET("/loans/:loan_id", loanH.GetLoan)
	api.POST("/loans/:loan_id/approve", approvalH.ApproveLoan)
	api.POST("/loans/:loan_id/reject", approvalH.RejectLoan)
	api.POST("/loans/:loan_id/disburse", approvalH.DisburseLoan)

	api.POST("/groups/:group_id/penalties", penaltyH.ApplyPenalty)
	api.POST("/groups/:group_id/penalties/sweep", penaltyH.SweepPenalties)

	sw := sweeper.New(groups, penaltyUC, cfg.SweepCron, log)
	if err := sw.Start(); err != nil {
		log.WithError(err).Fatal("sweeper schedule invalid")
	}
	defer sw.Stop()

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
