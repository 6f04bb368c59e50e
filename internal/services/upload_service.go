package services

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// UploadService клиент внешнего хранилища фотографий (Cloudinary).
// Сервис не хранит байты изображений: только прокидывает их наружу
// и возвращает ссылку + идентификатор для последующего удаления
type UploadService struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

// NewUploadService создает новый клиент Cloudinary
func NewUploadService(cloudName, apiKey, apiSecret string) *UploadService {
	return &UploadService{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   "https://api.cloudinary.com/v1_1",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadedImage результат загрузки одного изображения
type UploadedImage struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// sign подписывает параметры запроса по схеме Cloudinary:
// SHA1 от отсортированной строки параметров + секрет
func (us *UploadService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + us.apiSecret))
	return hex.EncodeToString(sum[:])
}

// UploadImage отправляет изображение во внешнее хранилище и возвращает
// ссылку и идентификатор удаления
func (us *UploadService) UploadImage(file multipart.File, filename string) (*UploadedImage, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    "complaints",
		"timestamp": timestamp,
	}
	signature := us.sign(params)

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, &DependencyError{Op: "cloudinary upload", Err: err}
		}
	}
	if err := writer.WriteField("api_key", us.apiKey); err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	if err := writer.WriteField("signature", signature); err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}

	uploadURL := fmt.Sprintf("%s/%s/image/upload", us.baseURL, us.cloudName)
	resp, err := us.client.Post(uploadURL, writer.FormDataContentType(), strings.NewReader(body.String()))
	if err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	defer resp.Body.Close()

	var result cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &DependencyError{Op: "cloudinary upload", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &DependencyError{
			Op:  "cloudinary upload",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, result.Error.Message),
		}
	}

	return &UploadedImage{ImageURL: result.SecureURL, PublicID: result.PublicID}, nil
}

type cloudinaryDestroyResponse struct {
	Result string `json:"result"`
}

// DeleteImage удаляет изображение из внешнего хранилища по идентификатору.
// Возвращает NotFoundError, если хранилище не знает такой идентификатор
func (us *UploadService) DeleteImage(publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	signature := us.sign(params)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", us.apiKey)
	form.Set("signature", signature)

	destroyURL := fmt.Sprintf("%s/%s/image/destroy", us.baseURL, us.cloudName)
	resp, err := us.client.PostForm(destroyURL, form)
	if err != nil {
		return &DependencyError{Op: "cloudinary destroy", Err: err}
	}
	defer resp.Body.Close()

	var result cloudinaryDestroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &DependencyError{Op: "cloudinary destroy", Err: err}
	}
	if result.Result != "ok" {
		return &NotFoundError{Entity: "изображение", Key: publicID}
	}
	return nil
}
