package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"solwindx/client"
	"solwindx/datasource"
	"solwindx/models"
	"solwindx/report"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	base := flag.String("base", "", "Prediction backend base URL (default $SOLWINDX_API_BASE or "+datasource.DefaultBaseURL+")")
	city := flag.String("city", "", "City to forecast")
	query := flag.String("query", "", "List cities matching this text and exit")
	mode := flag.String("mode", string(models.ModeRealtime), "Forecast mode: realtime, 7day, monthly or wind")
	area := flag.String("area", "", "Panel area in m²")
	efficiency := flag.String("efficiency", "", "Panel efficiency in percent")
	turbines := flag.String("turbines", "", "Number of wind turbines")
	diameter := flag.String("diameter", "", "Rotor diameter in metres")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	verbose := flag.Bool("v", false, "Debug logging to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	config := datasource.DefaultConfig()
	config.ApplyEnv()
	if *base != "" {
		config.BaseURL = strings.TrimRight(*base, "/")
	}

	c := client.New(config.NewService(logger),
		client.WithLogger(logger),
		client.WithNotifier(client.NotifierFunc(func(n client.Notice) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", n.Kind, n.Message)
		})),
		client.WithRenderer(client.RendererFunc(renderChart)),
	)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c.LoadLocations(ctx)

	if *query != "" {
		for _, loc := range c.Search(*query) {
			fmt.Printf("%-20s %s (%s)\n", loc.Name, loc.Model, loc.Model.ModelName())
		}
		return
	}
	if *city == "" {
		fmt.Println("Featured cities:")
		for _, loc := range c.Featured() {
			fmt.Printf("  %s\n", loc.Name)
		}
		fmt.Println("\nPass -city to request a forecast.")
		return
	}

	if err := c.SelectLocationByName(*city); err != nil {
		os.Exit(1)
	}

	result, err := c.Submit(ctx, models.Mode(*mode), client.Inputs{
		PanelArea:       *area,
		PanelEfficiency: *efficiency,
		NumTurbines:     *turbines,
		RotorDiameter:   *diameter,
	})
	if result == nil {
		if err != nil && !client.IsValidation(err) && !client.IsTransport(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	printSummary(report.Summarize(result))
}

func printSummary(s report.Summary) {
	fmt.Printf("%s (%s)\n", s.Map.City, s.Map.Coordinates)

	switch {
	case s.Snapshot != nil:
		fmt.Printf("  Energy per m²:   %.4f kWh\n", s.Snapshot.EnergyPerM2)
		fmt.Printf("  Total energy:    %.2f kWh over %.2f m²\n", s.Snapshot.EnergyTotal, s.Snapshot.Area)
		fmt.Printf("  Weather:         %s, %.1f°C, wind %.1f m/s\n", s.Snapshot.Condition, s.Snapshot.Temperature, s.Snapshot.WindSpeed)
		fmt.Printf("  Model:           %s\n", s.Snapshot.Model)
	case s.Series != nil:
		if s.Series.NoData {
			fmt.Println("  No forecast data available.")
			break
		}
		fmt.Printf("  Total:   %.2f kWh over %d days\n", s.Series.Total, s.Series.Days)
		fmt.Printf("  Average: %.2f kWh/day\n", s.Series.Average)
		fmt.Printf("  Peak:    day %d (%.2f kWh)\n", s.Series.Peak.Day, s.Series.Peak.EnergyTotal)
		fmt.Printf("  Lowest:  day %d (%.2f kWh)\n", s.Series.Lowest.Day, s.Series.Lowest.EnergyTotal)
	case s.Wind != nil:
		fmt.Printf("  Total energy:    %.2f kWh\n", s.Wind.EnergyTotal)
		fmt.Printf("  Per turbine:     %.2f kWh (%d turbines, %.2f m² swept each)\n",
			s.Wind.EnergyPerTurbine, s.Wind.Turbines, s.Wind.RotorArea)
		fmt.Printf("  Wind speed:      %.1f m/s\n", s.Wind.WindSpeed)
		fmt.Printf("  Model:           %s\n", s.Wind.Model)
	}
	fmt.Printf("  Map: %s\n", s.Map.EmbedURL)
}
