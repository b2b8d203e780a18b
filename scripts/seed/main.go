package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/process"
)

func main() {
	dataPath := getenv("DATA_PATH", "data/data.json")
	usersPath := getenv("USERS_PATH", "data/users.json")
	statusPath := getenv("STATUS_PATH", "data/status_config.json")
	ctx := context.Background()

	fmt.Println("→ Seeding users...")
	if err := seedUsers(ctx, usersPath); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	fmt.Println("→ Seeding processes...")
	if err := seedProcesses(ctx, dataPath, statusPath); err != nil {
		log.Fatalf("seed processes: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func seedUsers(ctx context.Context, path string) error {
	repo, err := auth.NewRepository(path)
	if err != nil {
		return err
	}
	svc := auth.NewService(repo, nil)

	demo := []auth.CreateUserInput{
		{Name: "Maria Souza", Email: "maria@cliente.com.br", Password: "cliente123", Role: auth.RoleClient, Processes: []string{"20230001"}},
		{Name: "João Pereira", Email: "joao@cliente.com.br", Password: "cliente123", Role: auth.RoleClient},
	}
	for _, input := range demo {
		if _, err := svc.CreateUser(ctx, input); err != nil {
			log.Printf("seed user %s skipped: %v", input.Email, err)
		}
	}
	return nil
}

func seedProcesses(ctx context.Context, dataPath, statusPath string) error {
	repo := process.NewRepository(dataPath, statusPath)
	svc := process.NewService(repo, nil, nil)

	existing, err := svc.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("  processes already present, skipping")
		return nil
	}

	demo := []*process.Process{
		{
			ID:            "20230001",
			Type:          process.TypeImport,
			Status:        "Em andamento",
			Ref:           "DKA-1/Sydex Adventure",
			Invoice:       "148/23",
			PO:            "PO123456",
			Origin:        "CHINA",
			Product:       "Eletrônicos",
			ETA:           process.ParseDate("22/04/2023"),
			Exporter:      "SNF INC",
			Ship:          "MSC VIDHI",
			Agent:         "MSC",
			BLNumber:      "MEDBX123456",
			Container:     "TTNU1212342",
			ContainerType: "FCL 1 X 40",
			ArrivalDate:   process.ParseDate("18/01/2023"),
			Terminal:      "ECOPORTO",
			InvoiceNumber: "7666",
			DI:            "20/146885-6",
			Map:           "MAPA123",
			FreeTime:      "7",
			ReturnDate:    process.ParseDate("25/01/2023"),
			PortEntryDate: process.ParseDate("19/01/2023"),
			OriginalDocs:  "Sim",
		},
		{
			ID:       "20230002",
			Type:     process.TypeExport,
			Status:   "Booking confirmado",
			Ref:      "EXP-7/Atlantic Run",
			Origin:   "BRASIL",
			Product:  "Café",
			Ship:     "MAERSK LOTA",
			Agent:    "MAERSK",
			ExportFields: process.ExportFields{
				Importer:     "NORDKAFFEE GMBH",
				ExportType:   "FCL",
				ShippingDate: process.ParseDate("02/03/2023"),
			},
		},
	}
	for _, p := range demo {
		if _, err := svc.Create(ctx, p, process.SystemUser); err != nil {
			log.Printf("seed process %s skipped: %v", p.ID, err)
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
