package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"
	"time"

	"geekseek/config"
	"geekseek/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/kelseyhightower/envconfig"
)

// BackupConfig ergänzt die Dienst-Konfiguration um die Rotation.
type BackupConfig struct {
	Prefix      string `envconfig:"BACKUP_PREFIX" default:"backups/"`
	KeepBackups int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

func main() {
	log.Println("Starte Backup des Such-Protokolls...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}
	if !cfg.SearchLogEnabled() || !cfg.ExportEnabled() {
		log.Fatalf("DB_HOST, S3_URL und S3_BUCKET müssen gesetzt sein")
	}
	var bcfg BackupConfig
	if err := envconfig.Process("", &bcfg); err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	ctx := context.Background()

	// 1. Datenbank-Dump erstellen
	dumpData, err := createDump(ctx, cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des DB-Dumps: %v", err)
	}

	// 2. Backup nach S3 hochladen
	client, err := storage.NewS3Client(cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}
	uploader := &storage.S3Uploader{Client: client, Bucket: cfg.S3Bucket, BaseURL: cfg.S3URL}
	key := backupKey(bcfg.Prefix, time.Now())
	link, err := uploader.Upload(ctx, key, dumpData, "application/gzip")
	if err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Backup erfolgreich hochgeladen: %s", link)

	// 3. Alte Backups rotieren, nur unterhalb des Präfixes
	if err := rotateBackups(ctx, client, cfg.S3Bucket, bcfg); err != nil {
		log.Fatalf("Fehler bei der Rotation alter Backups: %v", err)
	}

	log.Println("Backup-Prozess erfolgreich abgeschlossen.")
}

func backupKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%sgeekseek-%s.sql.gz", prefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

func createDump(ctx context.Context, cfg *config.Config) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.DBHost,
		"-p", fmt.Sprint(cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-t", "search_logs",
		"-w", // Passwort wird über PGPASSWORD bereitgestellt
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.DBPassword))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := io.Copy(gzipWriter, stdout); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// expiredBackups liefert alle Objekte außer den keep neuesten.
func expiredBackups(objects []types.Object, keep int) []types.Object {
	if len(objects) <= keep {
		return nil
	}
	sorted := append([]types.Object(nil), objects...)
	sort.Slice(sorted, func(i, j int) bool {
		return aws.ToTime(sorted[i].LastModified).After(aws.ToTime(sorted[j].LastModified))
	})
	return sorted[keep:]
}

func rotateBackups(ctx context.Context, client *s3.Client, bucket string, bcfg BackupConfig) error {
	output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(bcfg.Prefix),
	})
	if err != nil {
		return err
	}

	expired := expiredBackups(output.Contents, bcfg.KeepBackups)
	if len(expired) == 0 {
		log.Printf("Höchstens %d Backups vorhanden, keine Rotation nötig.", bcfg.KeepBackups)
		return nil
	}

	for _, obj := range expired {
		log.Printf("Lösche altes Backup: %s", aws.ToString(obj.Key))
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    obj.Key,
		})
		if err != nil {
			log.Printf("Fehler beim Löschen von %s: %v", aws.ToString(obj.Key), err)
		}
	}

	return nil
}
