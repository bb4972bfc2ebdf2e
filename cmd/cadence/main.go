// Cadence runs commands under composable loop-control policies.
//
// Chains of policies (count, timeout, rate, schedule) are declared in a YAML
// config and decide how many times, how fast, and for how long a command is
// repeated.
//
// Usage:
//
//	# Repeat a command under the "poll" chain
//	cadence run --chain poll -- curl -fsS http://localhost:8080/health
//
//	# Run a command once per stdin line
//	ls *.log | cadence run --chain batch --lines -- gzip
//
//	# Validate the configuration, re-checking on every change
//	cadence validate --watch
//
//	# Inspect recorded runs
//	cadence history list --chain poll --limit 10
package main

func main() {
	Execute()
}
