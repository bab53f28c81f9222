package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/jupabego97/nanotronics-etl/routes"
)

// RunScheduled ejecuta el ETL por planificador y levanta el API de
// monitoreo. Se detiene con SIGINT o SIGTERM.
func RunScheduled() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		log.Println("Señal de finalización recibida. Deteniendo el ETL Runner...")
		cancel()
	}()

	runner, err := NewETLRunner()
	if err != nil {
		log.Printf("Error creando el ETL Runner: %v", err)
		return err
	}
	defer runner.Close()

	// API de monitoreo: estado del servicio y journal de ejecuciones
	if runner.config.StatusAddr != "" {
		router := mux.NewRouter()
		routes.SetupRoutes(router, runner.etlLogRepo, runner.logger)

		server := &http.Server{
			Addr:    runner.config.StatusAddr,
			Handler: router,
		}
		go func() {
			runner.logger.Info("API de monitoreo escuchando en %s", runner.config.StatusAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				runner.logger.Error("Error en el API de monitoreo: %v", err)
			}
		}()
		defer server.Shutdown(context.Background())
	}

	runner.StartScheduler(ctx)
	return nil
}

func main() {
	modePtr := flag.String("mode", "scheduled", "Modo de ejecución: scheduled, once o reportes")
	flag.Parse()

	log.Println("Iniciando ETL Runner en modo:", *modePtr)

	var err error
	switch *modePtr {
	case "once":
		err = RunOnce()
	case "scheduled":
		err = RunScheduled()
	case "reportes":
		err = RunReportes()
	default:
		log.Println("Modo de ejecución desconocido:", *modePtr)
		log.Println("Modos disponibles: scheduled, once, reportes")
		os.Exit(1)
	}

	if err != nil {
		os.Exit(1)
	}

	log.Println("ETL Runner finalizó su trabajo")
}
