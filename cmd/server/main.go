package main

import (
	"github.com/strainnet/portal/backend/internal/server"
	"github.com/strainnet/portal/backend/internal/util"
	"github.com/strainnet/portal/backend/pkg/logger"
	"github.com/strainnet/portal/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
