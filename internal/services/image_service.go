package services

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImageService handles image processing and storage
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		_ = os.MkdirAll(uploadDir, 0755)
	}
	return &ImageService{
		uploadDir: uploadDir,
	}
}

// ProcessAndSaveProfilePicture saves the original image and creates a
// 128x128 thumbnail. Returns paths relative to the statically served
// /uploads root, with a timestamp query param for cache busting.
func (s *ImageService) ProcessAndSaveProfilePicture(file multipart.File, header *multipart.FileHeader) (originalPath, thumbnailPath string, err error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", "", fmt.Errorf("formato de imagen no soportado (solo JPG/PNG)")
	}

	filename := uuid.New().String()
	originalFilename := filename + ext
	thumbFilename := filename + "_thumb" + ext

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("error al decodificar imagen: %w", err)
	}

	// copy the original stream untouched; decoding above only validated it
	if _, err := file.Seek(0, 0); err != nil {
		return "", "", fmt.Errorf("error al leer archivo: %w", err)
	}

	outOriginal, err := os.Create(filepath.Join(s.uploadDir, originalFilename))
	if err != nil {
		return "", "", fmt.Errorf("error al crear archivo: %w", err)
	}
	defer outOriginal.Close()

	if _, err := io.Copy(outOriginal, file); err != nil {
		return "", "", fmt.Errorf("error al guardar imagen original: %w", err)
	}

	thumbImg := imaging.Fill(img, 128, 128, imaging.Center, imaging.Lanczos)

	outThumb, err := os.Create(filepath.Join(s.uploadDir, thumbFilename))
	if err != nil {
		return "", "", fmt.Errorf("error al crear thumbnail: %w", err)
	}
	defer outThumb.Close()

	if ext == ".png" {
		err = png.Encode(outThumb, thumbImg)
	} else {
		err = jpeg.Encode(outThumb, thumbImg, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", "", fmt.Errorf("error al guardar thumbnail: %w", err)
	}

	ts := fmt.Sprintf("%d", time.Now().Unix())
	return "/uploads/" + originalFilename + "?t=" + ts, "/uploads/" + thumbFilename + "?t=" + ts, nil
}
