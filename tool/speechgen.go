// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

// SpeechGenDefaultModel is the default text-to-speech model.
const SpeechGenDefaultModel = "gemini-2.5-flash-preview-tts"

// Speaker assigns a prebuilt voice to a speaker label used in a
// multi-speaker script ("Speaker: line" per line).
type Speaker struct {
	Name  string
	Voice string
}

// SpeechGenTool synthesizes a multi-speaker script into WAV audio.
type SpeechGenTool struct {
	base

	client *genai.Client
	model  string
}

var _ Tool = (*SpeechGenTool)(nil)

// NewSpeechGenTool creates a speech synthesis tool on the shared genai client.
func NewSpeechGenTool(client *genai.Client, modelName string) *SpeechGenTool {
	if modelName == "" {
		modelName = SpeechGenDefaultModel
	}
	return &SpeechGenTool{
		base:   newBase("speech_generation", "Synthesizes a multi-speaker script into audio."),
		client: client,
		model:  modelName,
	}
}

// Synthesize produces WAV audio for the script.
func (t *SpeechGenTool) Synthesize(ctx context.Context, script string, speakers []Speaker) (*GeneratedMedia, error) {
	speechConfig := &genai.SpeechConfig{}
	if len(speakers) > 0 {
		voiceConfigs := make([]*genai.SpeakerVoiceConfig, 0, len(speakers))
		for _, speaker := range speakers {
			voiceConfigs = append(voiceConfigs, &genai.SpeakerVoiceConfig{
				Speaker: speaker.Name,
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: speaker.Voice,
					},
				},
			})
		}
		speechConfig.MultiSpeakerVoiceConfig = &genai.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: voiceConfigs,
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(script, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       speechConfig,
	}

	var resp *genai.GenerateContentResponse
	operation := func() error {
		var err error
		resp, err = t.client.Models.GenerateContent(ctx, t.model, contents, config)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("speech generation: %w", err)
	}

	pcm := extractAudioData(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("speech generation returned no audio")
	}

	return &GeneratedMedia{
		Data:     wavFromPCM(pcm, 24000, 1),
		MIMEType: "audio/wav",
	}, nil
}

// Run implements [Tool].
func (t *SpeechGenTool) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	script, err := StringArg(args, "script")
	if err != nil {
		return nil, err
	}
	return t.Synthesize(ctx, script, nil)
}

// extractAudioData pulls the raw PCM bytes out of the response parts.
func extractAudioData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// wavFromPCM wraps 16-bit little-endian PCM samples in a WAV container.
func wavFromPCM(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)

	return buf
}
