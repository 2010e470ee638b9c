package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	SeedAdminUser(db)
	SeedSampleFlow(db)

	log.Println("✅ Success: Seed completed.")
}

// SeedAdminUser creates the initial admin account if none exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Warn: ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Printf("Info: Admin %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error: Failed to hash admin password: %v", err)
		return
	}

	admin := model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Administrador",
		Role:         constant.UserRoleAdmin,
		Status:       constant.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error: Failed to seed admin: %v", err)
		return
	}
	log.Printf("Info: Seeded admin user %s", email)
}

// SeedSampleFlow installs a ready-to-activate collection flow covering the
// common path: greeting, document capture, debt summary, agent hand-off.
func SeedSampleFlow(db *gorm.DB) {
	var count int64
	db.Model(&model.Flow{}).Where("name = ?", "Cobranza básica").Count(&count)
	if count > 0 {
		log.Println("Info: Sample flow already exists, skipping")
		return
	}

	flow := model.Flow{
		Name:        "Cobranza básica",
		Description: "Saludo, captura de documento, resumen de deuda y opciones de pago.",
		Status:      constant.FlowStatusDraft,
		StartNodeId: "saludo",
		Variables:   datatypes.JSON([]byte(`{}`)),
		Nodes: []model.FlowNode{
			{
				NodeId: "saludo",
				Name:   "Saludo inicial",
				Type:   "message",
				Config: datatypes.JSON([]byte(`{
					"message": "Hola, te escribimos de CobraBot. ¿Hablamos con el titular de la cuenta?",
					"useButtons": true,
					"buttons": [
						{"id": "btn_si", "label": "Sí", "value": "si"},
						{"id": "btn_no", "label": "No", "value": "no"}
					],
					"responseNodeId": "es_titular"
				}`)),
				Position: 0,
			},
			{
				NodeId: "es_titular",
				Name:   "¿Es el titular?",
				Type:   "condition",
				Config: datatypes.JSON([]byte(`{
					"conditions": [
						{"variable": "user_response", "operator": "equals", "value": "btn_si", "nextNodeId": "pedir_documento"}
					],
					"defaultNodeId": "despedida_no_titular"
				}`)),
				Position: 1,
			},
			{
				NodeId: "pedir_documento",
				Name:   "Captura de documento",
				Type:   "input",
				Config: datatypes.JSON([]byte(`{
					"message": "Para continuar, escribe tu número de documento.",
					"variableName": "document_number",
					"validation": {
						"required": true,
						"pattern": "^[0-9 .,-]{5,20}$",
						"errorMessage": "El documento debe tener entre 5 y 20 dígitos. Inténtalo de nuevo."
					}
				}`)),
				NextNodeId: "resumen_deuda",
				Position:   2,
			},
			{
				NodeId: "resumen_deuda",
				Name:   "Resumen de deuda",
				Type:   "message",
				Config: datatypes.JSON([]byte(`{
					"message": "{{debtor.name}}, registras una deuda de ${{debtor.total_debt}} con vencimiento {{debtor.due_date}}."
				}`)),
				NextNodeId: "menu_opciones",
				Position:   3,
			},
			{
				NodeId: "menu_opciones",
				Name:   "Opciones de pago",
				Type:   "menu",
				Config: datatypes.JSON([]byte(`{
					"message": "¿Cómo deseas continuar?",
					"options": [
						{"id": "opt_pagar", "label": "Pagar ahora", "value": "pagar", "nextNodeId": "fin_pago"},
						{"id": "opt_asesor", "label": "Hablar con un asesor", "value": "asesor", "nextNodeId": "transferir"}
					]
				}`)),
				Position: 4,
			},
			{
				NodeId: "fin_pago",
				Name:   "Cierre con enlace de pago",
				Type:   "end",
				Config: datatypes.JSON([]byte(`{
					"message": "Gracias. Recibirás el enlace de pago por este medio. ¡Hasta pronto!"
				}`)),
				Position: 5,
			},
			{
				NodeId: "transferir",
				Name:   "Transferencia a asesor",
				Type:   "transfer_agent",
				Config: datatypes.JSON([]byte(`{
					"message": "Te comunicamos con un asesor. Un momento por favor."
				}`)),
				Position: 6,
			},
			{
				NodeId: "despedida_no_titular",
				Name:   "Despedida",
				Type:   "end",
				Config: datatypes.JSON([]byte(`{
					"message": "Gracias por tu tiempo. Finalizamos la conversación."
				}`)),
				Position: 7,
			},
		},
	}

	if err := db.Create(&flow).Error; err != nil {
		log.Printf("Error: Failed to seed sample flow: %v", err)
		return
	}
	log.Printf("Info: Seeded sample flow %s (activate it from the console)", flow.Id)
}
