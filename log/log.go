package log

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Определяем уровни логирования
const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
)

var Stdlog, Errlog *stdlog.Logger

var (
	mu      sync.Mutex
	logDir  string
	debugOn bool
	timeNow = time.Now
)

func init() {
	Stdlog = stdlog.New(os.Stdout, "Success: ", stdlog.Ldate|stdlog.Ltime)
	Errlog = stdlog.New(os.Stderr, "Error: ", stdlog.Ldate|stdlog.Ltime)
}

// Setup configures the directory for rotated log files and whether DEBUG
// messages are emitted. An empty dir keeps logging on the console only.
func Setup(dir string, debug bool) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir %s: %w", dir, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	logDir = dir
	debugOn = debug
	return nil
}

// SetOutput redirects the console loggers, mostly useful in tests.
func SetOutput(stdout, stderr io.Writer) {
	Stdlog.SetOutput(stdout)
	Errlog.SetOutput(stderr)
}

func LogMessage(level, message string) {
	mu.Lock()
	defer mu.Unlock()

	if level == DEBUG && !debugOn {
		return
	}

	if level == ERROR {
		err := errors.New(message)
		printErrLocked("", err)
	}

	out := Stdlog.Writer()
	if logDir != "" {
		// Получаем имя лог-файла и текущий суффикс.
		logPath, suffix := getLogFilePath(logDir, "stdlog")

		// Производим ротацию: удаляем файл следующего периода.
		rotateLogs(logDir, "stdlog", suffix)

		logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			Errlog.Printf("[ERROR] Ошибка открытия файла %s: %v", logPath, err)
		} else {
			defer logFile.Close()
			out = io.MultiWriter(out, logFile)
		}
	}

	logger := stdlog.New(out, "Success: ", stdlog.Ldate|stdlog.Ltime)
	logger.Printf("[%s] %s\n", level, message)
}

// Debugf is LogMessage(DEBUG, ...) with formatting.
func Debugf(format string, args ...any) { LogMessage(DEBUG, fmt.Sprintf(format, args...)) }

// Infof is LogMessage(INFO, ...) with formatting.
func Infof(format string, args ...any) { LogMessage(INFO, fmt.Sprintf(format, args...)) }

// getLogFilePath определяет имя файла лога и возвращает суффикс для ротации.
func getLogFilePath(dir, typeLog string) (string, int) {
	day := timeNow().Day()
	var suffix int
	switch {
	case day >= 1 && day <= 9:
		suffix = 0
	case day >= 10 && day <= 19:
		suffix = 1
	default: // day >= 20
		suffix = 2
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d.log", typeLog, suffix)), suffix
}

// rotateLogs реализует логику "круговой" ротации: пока пишется файл с
// суффиксом N, файл суффикса N+1 (mod 3) удаляется, чтобы следующий
// период начался с пустого файла.
func rotateLogs(dir, typeLog string, currentSuffix int) {
	if currentSuffix < 0 || currentSuffix > 2 {
		return
	}
	fileToDelete := filepath.Join(dir, fmt.Sprintf("%s-%d.log", typeLog, (currentSuffix+1)%3))

	if _, err := os.Stat(fileToDelete); err == nil {
		if err := os.Remove(fileToDelete); err != nil {
			Errlog.Printf("[WARN] Ошибка при удалении файла %s: %v", fileToDelete, err)
		}
	}
}

func PrintIfErr(msg string, err *error) {
	if err == nil || *err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	printErrLocked(msg, *err)
}

func printErrLocked(msg string, err error) {
	out := Errlog.Writer()
	if logDir != "" {
		logPath, suffix := getLogFilePath(logDir, "errors")
		rotateLogs(logDir, "errors", suffix)

		logFile, localErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
		if localErr != nil {
			Errlog.Printf("[ERROR] Ошибка открытия файла %s: %v", logPath, localErr)
		} else {
			defer logFile.Close()
			out = io.MultiWriter(out, logFile)
		}
	}

	logger := stdlog.New(out, "Error: ", stdlog.Ldate|stdlog.Ltime)
	if msg == "" {
		logger.Printf("%v\n", err)
		return
	}
	logger.Printf("%s: %v\n", msg, err)
}
