// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging configures the process-wide slog logger.
//
// Logs are JSON records on stderr. Every record carries the module name and
// tool version; debug level adds the source location of the call.
//
// # Usage
//
//	logging.SetDefaultStructuredLoggerWithLevel("sislpkg", version, "debug")
//	slog.Info("phase starting", "recipe", "sisl/1.0.4", "phase", "configure")
//
// An empty level is read from LOG_LEVEL and falls back to info. Level names are case-insensitive; "warning" is accepted for warn.
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "package assembled",
//	    "module": "sislpkg",
//	    "version": "v1.0.0",
//	    "rules": 8,
//	    "files": 42
//	}
package logging
