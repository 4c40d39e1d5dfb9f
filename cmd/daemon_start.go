package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/server"
	"github.com/odyssey/cronctl/internal/version"
)

var daemonStartCmd = &cobra.Command{
	Use:   startCmdStr,
	Short: "Start the dispatcher daemon",
	RunE:  runDaemonStart,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	if server.IsDispatcherProcess() {
		return runDispatcherLoop()
	}
	return forkDispatcher()
}

// runDispatcherLoop is the dispatcher child process: it writes its PID and
// version, runs the server until signalled, then cleans up.
func runDispatcherLoop() error {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)
	if err := os.WriteFile(pidFilepath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write PID file")
	}

	versionFilepath := config.GetDispatcherVersionFilepath(cronctlDirpath)
	if err := os.WriteFile(versionFilepath, []byte(version.Version), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write version file")
	}

	logFilepath := config.GetDispatcherLogFilepath(cronctlDirpath)
	logFile, err := os.OpenFile(logFilepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return stacktrace.Propagate(err, "failed to open log file")
	}
	defer logFile.Close()

	logger := log.New(logFile, "", log.LstdFlags)

	socketFilepath := config.GetDispatcherSocketFilepath(cronctlDirpath)
	srv := server.NewServer(cronctlDirpath, socketFilepath, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal: %v", sig)
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}

	os.Remove(pidFilepath)
	logger.Println("Dispatcher exited")

	return nil
}

// forkDispatcher launches the dispatcher as a detached child process and
// waits for its socket to come up.
func forkDispatcher() error {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)
	logFilepath := config.GetDispatcherLogFilepath(cronctlDirpath)

	if server.IsRunning(pidFilepath) {
		pid, _ := server.ReadPID(pidFilepath)
		fmt.Printf("Dispatcher is already running (PID %d).\n", pid)
		return nil
	}

	if err := server.ForkDispatcher(logFilepath, pidFilepath); err != nil {
		return stacktrace.Propagate(err, "failed to fork dispatcher")
	}

	socketFilepath := config.GetDispatcherSocketFilepath(cronctlDirpath)
	if err := server.WaitForReady(socketFilepath); err != nil {
		return stacktrace.Propagate(err, "dispatcher process started but failed to become ready")
	}

	newPID, _ := server.ReadPID(pidFilepath)
	fmt.Printf("Dispatcher started (PID %d).\n", newPID)

	return nil
}
