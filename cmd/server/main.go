/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"accredited-programmes-ui/config"
	"accredited-programmes-ui/internal/logger"
	"accredited-programmes-ui/internal/server"
)

func main() {
	cfg := config.GetConfig()

	appLogger, err := logger.NewLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Service:     cfg.Audit.ServiceName,
		BuildNumber: cfg.Build.Number,
		GitRef:      cfg.Build.GitRef,
	})
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create server", zap.Error(err))
	}

	if err := srv.Start(ctx); err != nil {
		appLogger.Fatal("Server exited", zap.Error(err))
	}
}
