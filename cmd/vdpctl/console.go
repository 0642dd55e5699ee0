package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vdpcore/licensed/internal/history"
	"github.com/vdpcore/licensed/internal/models"
	"github.com/vdpcore/licensed/internal/session"
	"github.com/vdpcore/licensed/pkg/client"
)

// console holds the state of one interactive operator session. The history
// dies with the process; only the credential file outlives it.
type console struct {
	in       *bufio.Scanner
	out      io.Writer
	store    *session.Store
	manager  *session.Manager
	history  *history.History
	lastView []models.LicenseRecord
}

func runConsole(cmd *cobra.Command, args []string) error {
	credPath := credentialsPath
	if credPath == "" {
		var err error
		credPath, err = session.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := session.Open(credPath)
	if err != nil {
		return err
	}

	c := &console{
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
		store:   store,
		manager: session.NewManager(store),
		history: history.New(),
	}

	return c.run()
}

func (c *console) run() error {
	for {
		if !c.loginLoop() {
			return nil // EOF at the login prompt
		}

		again := c.commandLoop()
		if !again {
			return nil
		}
		// Logged out; back to the login gate
	}
}

// loginLoop prompts until a login succeeds. Returns false on EOF.
func (c *console) loginLoop() bool {
	fmt.Fprintln(c.out, "=== Connexion Admin — Gestionnaire de Licences ===")

	for {
		username, ok := c.prompt("Utilisateur : ")
		if !ok {
			return false
		}
		password, ok := c.prompt("Mot de passe : ")
		if !ok {
			return false
		}

		sess, err := c.manager.Login(username, password)
		if err != nil {
			fmt.Fprintln(c.out, err.Error())
			continue
		}

		fmt.Fprintf(c.out, "Connexion réussie ! (%s — %s)\n", sess.Username, sess.Role)
		return true
	}
}

// commandLoop dispatches operator commands. Returns true when the operator
// logged out (back to the gate), false on quit or EOF.
func (c *console) commandLoop() bool {
	fmt.Fprintln(c.out, "Commandes : generate [mac] <jours> | history | search <q> | stats | delete <n> | export | set-username <u> | set-password <p> | set-api-key <k> | logout | quit")

	for {
		line, ok := c.prompt("> ")
		if !ok {
			return false
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "generate":
			c.cmdGenerate(fields[1:])
		case "history":
			c.showRecords(c.history.All())
		case "search":
			c.showRecords(c.history.Search(strings.Join(fields[1:], " ")))
		case "stats":
			c.cmdStats()
		case "delete":
			c.cmdDelete(fields[1:])
		case "export":
			c.cmdExport()
		case "set-username":
			c.cmdSetUsername(fields[1:])
		case "set-password":
			c.cmdSetPassword(fields[1:])
		case "set-api-key":
			c.cmdSetAPIKey(fields[1:])
		case "logout":
			if c.confirm("Êtes-vous sûr de vouloir quitter votre session administrateur ?") {
				c.manager.Logout()
				c.history = history.New()
				c.lastView = nil
				fmt.Fprintln(c.out, "Déconnexion effectuée")
				return true
			}
		case "quit", "exit":
			return false
		default:
			fmt.Fprintf(c.out, "Commande inconnue : %s\n", fields[0])
		}
	}
}

func (c *console) cmdGenerate(args []string) {
	var mac string
	var daysArg string

	switch len(args) {
	case 1:
		daysArg = args[0]
	case 2:
		mac = args[0]
		daysArg = args[1]
	default:
		fmt.Fprintln(c.out, "Usage : generate [mac] <jours>")
		return
	}

	days, err := strconv.Atoi(daysArg)
	if err != nil {
		fmt.Fprintln(c.out, "La durée de validité est requise.")
		return
	}

	api := client.New(serverURL, client.WithAPIKey(c.store.Credentials().APIKey))

	record, err := api.Generate(context.Background(), mac, days)
	if err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			fmt.Fprintln(c.out, httpErr.Message)
		} else {
			fmt.Fprintf(c.out, "Erreur réseau : %v\n", err)
		}
		return
	}

	enriched := c.history.RecordSuccess(record)
	fmt.Fprintln(c.out, "Licence générée avec succès !")
	fmt.Fprintf(c.out, "  Clé        : %s\n", enriched.LicenseKey)
	fmt.Fprintf(c.out, "  MAC        : %s\n", enriched.MacAddress)
	fmt.Fprintf(c.out, "  Expiration : %s\n", enriched.ExpirationDate)
}

func (c *console) showRecords(records []models.LicenseRecord) {
	c.lastView = records

	if len(records) == 0 {
		fmt.Fprintln(c.out, "Aucune licence trouvée")
		return
	}

	for i, r := range records {
		fmt.Fprintf(c.out, "%3d. %s  MAC: %s  Expire: %s  (%s)\n",
			i+1, r.LicenseKey, r.MacAddress, r.ExpirationDate, r.Timestamp)
	}
}

func (c *console) cmdStats() {
	stats := c.history.Stats()
	fmt.Fprintf(c.out, "Total : %d  Matériel : %d  Globales : %d\n",
		stats.Total, stats.HardwareBound, stats.Global)
}

func (c *console) cmdDelete(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage : delete <n> (numéro de la dernière liste affichée)")
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(c.lastView) {
		fmt.Fprintln(c.out, "Numéro invalide.")
		return
	}

	// Resolve the positional index against the displayed view back to the
	// record itself before touching the base history
	record := c.lastView[n-1]

	if !c.confirm("Cette action effacera définitivement cette licence de l'historique local. Supprimer ?") {
		return
	}

	if c.history.Delete(record) {
		c.lastView = nil
		fmt.Fprintln(c.out, "Licence supprimée")
	} else {
		fmt.Fprintln(c.out, "Licence introuvable.")
	}
}

func (c *console) cmdExport() {
	path, err := c.history.ExportCSV(exportDir)
	if err != nil {
		fmt.Fprintf(c.out, "Erreur d'export : %v\n", err)
		return
	}
	if path == "" {
		fmt.Fprintln(c.out, "Aucune licence à exporter.")
		return
	}
	fmt.Fprintf(c.out, "CSV exporté : %s\n", path)
}

func (c *console) cmdSetUsername(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage : set-username <utilisateur>")
		return
	}
	if err := c.manager.UpdateUsername(args[0]); err != nil {
		fmt.Fprintln(c.out, err.Error())
		return
	}
	fmt.Fprintln(c.out, "Identifiant mis à jour")
}

func (c *console) cmdSetPassword(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage : set-password <mot de passe>")
		return
	}
	if err := c.manager.UpdatePassword(args[0]); err != nil {
		fmt.Fprintln(c.out, err.Error())
		return
	}
	fmt.Fprintln(c.out, "Mot de passe sécurisé enregistré !")
}

func (c *console) cmdSetAPIKey(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage : set-api-key <clé>")
		return
	}
	if err := c.manager.SaveAPIKey(args[0]); err != nil {
		fmt.Fprintln(c.out, err.Error())
		return
	}
	fmt.Fprintln(c.out, "Clé API enregistrée")
}

// prompt reads one line; ok is false on EOF.
func (c *console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// confirm asks a yes/no question; only an explicit "o"/"oui"/"y"/"yes"
// confirms.
func (c *console) confirm(question string) bool {
	answer, ok := c.prompt(question + " (o/N) ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "o", "oui", "y", "yes":
		return true
	}
	return false
}
