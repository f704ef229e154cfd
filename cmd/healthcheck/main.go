// main.go
//
// Land tokenization review and transaction workflow service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of landtoken.
// landtoken is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// landtoken is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with landtoken.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/database"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Fail fast when a network database is not listening
	if cfg.DBType != "sqlite" {
		if err := utils.PingHost(ctx, cfg.DBHost, cfg.DBPort); err != nil {
			report(log, services.HealthCheckResult{
				Status:       "unhealthy",
				Database:     "unreachable",
				ErrorMessage: fmt.Sprintf("Database host ping failed: %v", err),
			})
		}
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	report(log, services.HealthCheck(ctx, cfg, db, log))
}

// report prints the result as JSON and exits non-zero unless healthy
func report(log *zap.Logger, result services.HealthCheckResult) {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal("Failed to marshal health check result", zap.Error(err))
	}

	fmt.Println(string(output))

	if result.Status != "healthy" {
		_ = log.Sync()
		os.Exit(1)
	}
}
