package jobs

import (
	"log"

	"Backend-Brokerflow/src/database"

	"github.com/hibiken/asynq"
)

// StartWorker runs the asynq server that drains the post-commit effect
// queue (agency notifications). No-op when Redis is unavailable.
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not available. Background worker not started.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotifyAgency, HandleNotifyAgencyTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("❌ Asynq worker stopped:", err)
		}
	}()
	log.Println("✅ Background worker started")
}
