package audio

// WhisperSampleRate is the rate whisper models are trained on.
const WhisperSampleRate = 16000

// ReadMono16k decodes a PCM WAV file into mono float32 samples at 16 kHz,
// the input format whisper.cpp expects.
func ReadMono16k(path string) ([]float32, error) {
	buf, err := decodePCM(path)
	if err != nil {
		return nil, err
	}

	channels := 1
	rate := WhisperSampleRate
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			rate = buf.Format.SampleRate
		}
	}

	mono := downmix(buf.Data, channels, buf.SourceBitDepth)
	return resample(mono, rate, WhisperSampleRate), nil
}

func downmix(data []int, channels, bitDepth int) []float32 {
	frames := len(data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += normalize(data[i*channels+c], bitDepth)
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

// resample uses linear interpolation; good enough for speech recognition input.
func resample(in []float32, from, to int) []float32 {
	if from == to || len(in) == 0 {
		return in
	}

	outLen := int(int64(len(in)) * int64(to) / int64(from))
	out := make([]float32, outLen)
	step := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = in[idx]*(1-frac) + in[idx+1]*frac
	}
	return out
}
